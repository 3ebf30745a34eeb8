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

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// TaskSnapshot is a point-in-time, read-only view of one task.
type TaskSnapshot struct {
	ID         TaskID
	State      TaskState
	SetEvents  EventMask
	WaitEvents EventMask
}

// AlarmSnapshot is a point-in-time, read-only view of one alarm.
type AlarmSnapshot struct {
	ID     AlarmID
	Active bool
	Remain uint32
	Cycle  uint32
}

// ScheduleTableSnapshot is a point-in-time, read-only view of one schedule
// table.
type ScheduleTableSnapshot struct {
	ID        TableID
	Running   bool
	Waiting   bool
	Start     uint32
	CurrentEP int
	NumEPs    int
	Offsets   []uint32
}

// Snapshot is the full point-in-time view returned by Kernel.Snapshot.
type Snapshot struct {
	Current        TaskID
	SwitchPending  bool
	Tasks          []TaskSnapshot
	Alarms         []AlarmSnapshot
	ScheduleTables []ScheduleTableSnapshot
}

// Snapshot takes a lock-protected, read-only snapshot of kernel state: the
// current task and whether a switch is pending, task states and event masks,
// alarms, and schedule-table progress. The ready queue contents and counter
// values are not included.
// There is no equivalent of a debugger attaching to a single-core MCU, so
// this is the only window a test or the demo CLI has into kernel state
// outside of the user-callable API.
func (k *Kernel) Snapshot() Snapshot {
	var s Snapshot
	k.masked(func() {
		s.Current = k.current
		s.SwitchPending = k.next != nil

		s.Tasks = make([]TaskSnapshot, len(k.tasks.tasks))
		for i := range k.tasks.tasks {
			t := &k.tasks.tasks[i]
			s.Tasks[i] = TaskSnapshot{
				ID:         t.id,
				State:      t.state,
				SetEvents:  t.setEvents,
				WaitEvents: t.waitEvents,
			}
		}

		s.Alarms = make([]AlarmSnapshot, len(k.alarms))
		for i, a := range k.alarms {
			s.Alarms[i] = AlarmSnapshot{ID: a.id, Active: a.active, Remain: a.remain, Cycle: a.cycle}
		}

		s.ScheduleTables = make([]ScheduleTableSnapshot, len(k.scheduleTables))
		for i, st := range k.scheduleTables {
			s.ScheduleTables[i] = ScheduleTableSnapshot{
				ID:        st.id,
				Running:   st.state == tableRunning,
				Waiting:   st.state == tableWaitingStart,
				Start:     st.start,
				CurrentEP: st.currentEP,
				NumEPs:    st.numEPs(),
				Offsets:   st.offsets(),
			}
		}
	})
	return s
}

// DebugDump logs the current Snapshot at debug level, a no-op when Debug is
// false so release builds can skip the allocation Snapshot otherwise does on
// every call.
func (k *Kernel) DebugDump() {
	if !k.Debug {
		return
	}
	s := k.Snapshot()
	fields := logrus.Fields{
		"current_task":   s.Current,
		"switch_pending": s.SwitchPending,
	}
	for _, t := range s.Tasks {
		fields[fmt.Sprintf("task_%d", t.ID)] = t.State.String()
	}
	k.log.WithFields(fields).Debug("kernel snapshot")
}
