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

// StartScheduleTableRel starts a Stopped table with a time origin offset
// ticks ahead of its counter's current value. Starting a table that is not
// Stopped, or whose duration is zero, is silently ignored.
func (k *Kernel) StartScheduleTableRel(tbl TableID, offset uint32) {
	k.masked(func() {
		st := k.scheduleTableOrNil(tbl)
		if st == nil || st.state != tableStopped || st.duration == 0 {
			return
		}
		c := k.counterFor(st)
		st.startAt(diffWrapAdd(c.currentValue, offset, c.maxAllowedValue))
	})
}

// StartScheduleTableAbs starts a Stopped table with an absolute time origin
// (a counter value).
func (k *Kernel) StartScheduleTableAbs(tbl TableID, start uint32) {
	k.masked(func() {
		st := k.scheduleTableOrNil(tbl)
		if st == nil || st.state != tableStopped || st.duration == 0 {
			return
		}
		st.startAt(start)
	})
}

// StopScheduleTable transitions tbl to Stopped from any state.
func (k *Kernel) StopScheduleTable(tbl TableID) {
	k.masked(func() {
		st := k.scheduleTableOrNil(tbl)
		if st == nil {
			return
		}
		st.stop()
	})
}

// SyncScheduleTable re-origins a WaitingStart or Running table to
// (current_value + newOffset) mod max and re-enters WaitingStart. A Stopped
// table is left alone.
func (k *Kernel) SyncScheduleTable(tbl TableID, newOffset uint32) {
	k.masked(func() {
		st := k.scheduleTableOrNil(tbl)
		if st == nil || st.state == tableStopped {
			return
		}
		c := k.counterFor(st)
		st.sync(c.currentValue, newOffset, c.maxAllowedValue)
	})
}

func (k *Kernel) scheduleTableOrNil(tbl TableID) *scheduleTable {
	if int(tbl) >= len(k.scheduleTables) {
		return nil
	}
	return k.scheduleTables[tbl]
}

func (k *Kernel) counterFor(st *scheduleTable) *counter {
	return k.counters[st.counter]
}
