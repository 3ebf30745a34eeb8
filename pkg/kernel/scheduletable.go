// Copyright 2026 The RTOS-VCU Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kernel

import "github.com/google/btree"

// tableState is the schedule table's own three-state machine, distinct from
// TaskState.
type tableState uint8

const (
	tableStopped tableState = iota
	tableWaitingStart
	tableRunning
)

// expiryPoint is a single (offset, action) record within a schedule table.
// Declared order (the order they were configured in) is the tie-break for
// expiry points sharing an offset; seq preserves that order since btree
// orders purely by Less.
type expiryPoint struct {
	offset uint32
	seq    int
	action Action
}

func (e expiryPoint) Less(than btree.Item) bool {
	other := than.(expiryPoint)
	if e.offset != other.offset {
		return e.offset < other.offset
	}
	return e.seq < other.seq
}

// scheduleTable is an ordered list of expiry points on a counter, cyclic or
// finite. Expiry points are held in a btree ordered by (offset, declaration
// order) so the firing loop walks them in ascending order without a sort on
// every Sync; eps additionally keeps the flat ordered slice the firing loop
// indexes by currentEP.
type scheduleTable struct {
	id      TableID
	counter CounterID
	state   tableState

	duration uint32
	cyclic   bool

	start     uint32
	currentEP int

	eps  []expiryPoint
	tree *btree.BTree
}

func newScheduleTable(id TableID, counter CounterID, duration uint32, cyclic bool, eps []expiryPoint) *scheduleTable {
	for i := range eps {
		eps[i].seq = i
	}
	tree := btree.New(8)
	for _, ep := range eps {
		tree.ReplaceOrInsert(ep)
	}
	// eps must walk in strictly-increasing-offset order for the firing
	// loop's currentEP index to mean anything; the btree is the authority
	// on that order, so derive the flat slice from an ascending walk of it
	// rather than trusting caller order.
	ordered := make([]expiryPoint, 0, len(eps))
	tree.Ascend(func(item btree.Item) bool {
		ordered = append(ordered, item.(expiryPoint))
		return true
	})
	eps = ordered
	return &scheduleTable{
		id:       id,
		counter:  counter,
		state:    tableStopped,
		duration: duration,
		cyclic:   cyclic,
		eps:      eps,
		tree:     tree,
	}
}

func (t *scheduleTable) numEPs() int { return len(t.eps) }

// offsets returns the table's expiry-point offsets in ascending order, read
// straight off the backing btree rather than the flat slice, for
// introspection callers (Kernel.Snapshot) that want the declared schedule
// without depending on the firing loop's internal representation.
func (t *scheduleTable) offsets() []uint32 {
	out := make([]uint32, 0, t.tree.Len())
	t.tree.Ascend(func(item btree.Item) bool {
		out = append(out, item.(expiryPoint).offset)
		return true
	})
	return out
}

// startAt transitions a Stopped table to WaitingStart with the given time
// origin. Called by both StartScheduleTableRel (origin = current + offset)
// and StartScheduleTableAbs (origin = offset).
func (t *scheduleTable) startAt(origin uint32) {
	t.start = origin
	t.currentEP = 0
	t.state = tableWaitingStart
}

func (t *scheduleTable) stop() {
	t.state = tableStopped
	t.currentEP = 0
}

// sync re-origins a running or waiting table to (current_value + newOffset)
// mod max and re-enters WaitingStart.
func (t *scheduleTable) sync(currentValue, newOffset, max uint32) {
	t.start = diffWrapAdd(currentValue, newOffset, max)
	t.currentEP = 0
	t.state = tableWaitingStart
}

// advance runs the firing loop for one tick of the table's bound counter:
// compute elapsed, transition WaitingStart to Running once elapsed lies
// inside the period, fire all expiry points now covered by elapsed, and
// roll the time origin forward past every completed period in one step,
// then re-evaluate once, so a burst of late ticks never silently skips
// expiry points in a cyclic table.
//
// Both the Running transition and the firing loop are gated on the table
// actually being inside its period. A WaitingStart table whose elapsed is
// already past the duration (started in the past, or a tick burst landing
// before it ever ran) must not fire anything against that overdue elapsed:
// the origin is rolled first and only the corrected in-period elapsed
// fires, exactly once. A Running table, by contrast, finishes the period it
// legitimately entered, so its remaining expiry points do fire against the
// overdue elapsed before the roll.
//
// Written as an explicit loop rather than recursion. A multi-period
// catch-up takes at most two passes: the roll moves the origin past all
// skipped periods at once, so the re-evaluated elapsed always lies inside
// the period and the second pass returns.
func (t *scheduleTable) advance(currentValue, max uint32, k *Kernel) {
	for {
		if t.state == tableStopped {
			return
		}
		elapsed := diffWrap(currentValue, t.start, max)

		if t.state == tableWaitingStart && elapsed < t.duration {
			t.state = tableRunning
		}

		if t.state == tableRunning {
			for t.currentEP < len(t.eps) && t.eps[t.currentEP].offset <= elapsed {
				t.eps[t.currentEP].action.fire(k)
				t.currentEP++
			}
		}

		if elapsed < t.duration {
			return
		}

		if !t.cyclic {
			t.state = tableStopped
			t.currentEP = 0
			return
		}

		periodsSkipped := elapsed / t.duration
		t.start = diffWrapAdd(t.start, periodsSkipped*t.duration, max)
		t.currentEP = 0
		t.state = tableWaitingStart
		// Loop back around to fire whatever the rolled origin now covers.
	}
}
