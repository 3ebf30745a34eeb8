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

import "testing"

func newCountingTable(duration uint32, cyclic bool, offsets ...uint32) (*scheduleTable, *[]int) {
	counts := make([]int, len(offsets))
	eps := make([]expiryPoint, len(offsets))
	for i, off := range offsets {
		i := i
		eps[i] = expiryPoint{offset: off, action: Action{Kind: CallbackAction, Callback: func() { counts[i]++ }}}
	}
	st := newScheduleTable(0, 0, duration, cyclic, eps)
	return st, &counts
}

// TestScheduleTableCatchUp: a cyclic table with duration 10 and expiry
// points at offsets {0, 5}, started at counter 0, observing a burst tick
// delivery where elapsed jumps straight from 4 to 21 between two
// invocations. The rolled-over period must re-fire whatever its origin now
// covers, and nothing more: exactly 3 firings total by the time advance
// returns.
func TestScheduleTableCatchUp(t *testing.T) {
	st, counts := newCountingTable(10, true, 0, 5)
	st.startAt(0)

	st.advance(4, 1000, nil) // elapsed = 4: EP0 fires, EP5 not yet
	if total := (*counts)[0] + (*counts)[1]; total != 1 {
		t.Fatalf("after elapsed=4, total fires = %d, want 1", total)
	}

	st.advance(21, 1000, nil) // burst: elapsed jumps straight to 21
	if (*counts)[0] != 2 {
		t.Errorf("EP0 fired %d times, want 2 (period 0 and the new period after catch-up)", (*counts)[0])
	}
	if (*counts)[1] != 1 {
		t.Errorf("EP5 fired %d times, want 1 (period 0 only; period 2 hasn't reached offset 5 yet)", (*counts)[1])
	}
	if total := (*counts)[0] + (*counts)[1]; total != 3 {
		t.Fatalf("total fires = %d, want 3", total)
	}
	if st.state != tableRunning {
		t.Errorf("state = %v, want Running", st.state)
	}
	if st.start != 20 {
		t.Errorf("start = %d, want 20 (2 periods of 10 skipped)", st.start)
	}
}

func TestScheduleTableNonCyclicStopsAfterDuration(t *testing.T) {
	st, counts := newCountingTable(10, false, 0, 5)
	st.startAt(0)

	st.advance(2, 1000, nil) // enters Running, EP0 fires
	if (*counts)[0] != 1 || (*counts)[1] != 0 {
		t.Fatalf("after elapsed=2, fires = %v, want [1 0]", *counts)
	}

	// A burst past the end of the period: the Running table finishes its
	// remaining expiry points against the overdue elapsed, then stops.
	st.advance(12, 1000, nil)
	if (*counts)[0] != 1 || (*counts)[1] != 1 {
		t.Fatalf("after elapsed=12, fires = %v, want [1 1]", *counts)
	}
	if st.state != tableStopped {
		t.Errorf("state = %v, want Stopped", st.state)
	}
	if st.currentEP != 0 {
		t.Errorf("currentEP = %d, want reset to 0 on stop", st.currentEP)
	}
}

// A non-cyclic table that never entered Running before its whole period
// passed has no period to roll into: it stops without firing.
func TestScheduleTableNonCyclicOverdueStartFiresNothing(t *testing.T) {
	st, counts := newCountingTable(10, false, 0, 5)
	st.startAt(0)

	st.advance(15, 1000, nil)
	if (*counts)[0] != 0 || (*counts)[1] != 0 {
		t.Errorf("fires = %v, want [0 0] (overdue WaitingStart must not fire)", *counts)
	}
	if st.state != tableStopped {
		t.Errorf("state = %v, want Stopped", st.state)
	}
}

// A cyclic table whose origin already lies a full period or more in the
// past must catch up on its first tick instead of wedging in WaitingStart,
// and must fire each due expiry point exactly once, against the rolled
// origin's in-period elapsed, never against the raw overdue one.
func TestScheduleTableStartedInThePastCatchesUpInsteadOfWedging(t *testing.T) {
	st, counts := newCountingTable(10, true, 0, 5)
	st.startAt(0)

	st.advance(15, 1000, nil) // already past a full period at the first tick observed
	if (*counts)[0] != 1 || (*counts)[1] != 1 {
		t.Errorf("fires = %v, want [1 1] (once each in the rolled period, elapsed 5)", *counts)
	}
	if st.state != tableRunning {
		t.Errorf("state = %v, want Running", st.state)
	}
	if st.start != 10 {
		t.Errorf("start = %d, want 10 (one period of 10 skipped)", st.start)
	}
	if st.currentEP != 2 {
		t.Errorf("currentEP = %d, want 2 (both EPs fired in the current period)", st.currentEP)
	}
}

func TestScheduleTableExpiryPointsOrderedByOffsetThenDeclaration(t *testing.T) {
	st, _ := newCountingTable(100, true, 50, 10, 30, 10)
	got := st.offsets()
	want := []uint32{10, 10, 30, 50}
	if len(got) != len(want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offsets[%d] = %d, want %d (full: %v)", i, got[i], want[i], got)
		}
	}
	// The two offset-10 entries must still fire in declaration order.
	if st.eps[0].offset != 10 || st.eps[1].offset != 10 {
		t.Fatalf("eps[0:2] = %+v, want both offset 10", st.eps[:2])
	}
	if st.eps[0].seq > st.eps[1].seq {
		t.Error("equal-offset expiry points are not in declaration order")
	}
}

func TestScheduleTableSyncReOrigins(t *testing.T) {
	st, _ := newCountingTable(10, true, 0, 5)
	st.startAt(0)
	st.advance(4, 100, nil)

	st.sync(4, 2, 100) // re-origin to (current + newOffset) mod max
	if st.state != tableWaitingStart {
		t.Errorf("state after Sync = %v, want WaitingStart", st.state)
	}
	if st.start != 6 {
		t.Errorf("start after Sync = %d, want 6", st.start)
	}
	if st.currentEP != 0 {
		t.Errorf("currentEP after Sync = %d, want reset to 0", st.currentEP)
	}
}

func TestStartScheduleTableZeroDurationIgnored(t *testing.T) {
	p := &fakePort{}
	cfg := Config{
		Tasks:    make([]TaskConfig, 2),
		InitTask: 0,
		IdleTask: 1,
		Counters: []CounterConfig{{MaxAllowedValue: 100, TicksPerBase: 1, MinCycle: 1}},
		ScheduleTables: []ScheduleTableConfig{{
			Counter:  0,
			Duration: 0,
			Cyclic:   true,
		}},
	}
	k := New(p, cfg)
	if err := k.OS_Init(); err != nil {
		t.Fatalf("OS_Init: %v", err)
	}

	k.StartScheduleTableRel(0, 0)
	if k.scheduleTables[0].state != tableStopped {
		t.Error("zero-duration table left Stopped state; it can never make progress")
	}
	// Ticking must not panic on the never-started table.
	for i := 0; i < 5; i++ {
		k.OnTick()
	}
}

func TestStartScheduleTableWhileRunningIgnored(t *testing.T) {
	p := &fakePort{}
	cfg := Config{
		Tasks:    make([]TaskConfig, 2),
		InitTask: 0,
		IdleTask: 1,
		Counters: []CounterConfig{{MaxAllowedValue: 100, TicksPerBase: 1, MinCycle: 1}},
		ScheduleTables: []ScheduleTableConfig{{
			Counter:  0,
			Duration: 10,
			Cyclic:   true,
		}},
	}
	k := New(p, cfg)
	if err := k.OS_Init(); err != nil {
		t.Fatalf("OS_Init: %v", err)
	}

	k.StartScheduleTableRel(0, 5)
	start := k.scheduleTables[0].start
	k.StartScheduleTableRel(0, 7) // not Stopped: must be ignored
	if got := k.scheduleTables[0].start; got != start {
		t.Errorf("second Start changed origin from %d to %d; it must be ignored", start, got)
	}
}
