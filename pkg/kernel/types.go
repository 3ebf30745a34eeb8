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

// TaskID identifies a task by its index into the static task table.
type TaskID uint8

// AlarmID identifies a statically-declared alarm.
type AlarmID uint8

// CounterID identifies a statically-declared counter. Counter 0 is always
// the hardwired OS tick source.
type CounterID uint8

// TableID identifies a statically-declared schedule table.
type TableID uint8

// EventMask is a bitfield of event flags private to one extended task.
type EventMask uint32

// TaskState is a reified state in the task state machine.
//
// Mutations of TaskState happen only inside a critical section guarded by
// the port's interrupt mask; see Kernel.masked.
type TaskState uint8

const (
	// Dormant tasks are not scheduled and own no ready-queue entry. A task
	// starts Dormant (except Init and Idle) and returns to Dormant on
	// TerminateTask/ChainTask/falling off its entry point.
	Dormant TaskState = iota
	// Ready tasks are eligible to run and hold exactly one entry in the
	// ready queue, except Idle, which is never queued, and Init between
	// OS_Init and OS_Start, which is seeded into Kernel.current instead.
	Ready
	// Running is held by at most one task: Kernel.current, or, while a
	// switch is pending, the task Kernel.next points to, which schedule
	// marks Running as soon as it selects it. Idle is never marked Running.
	Running
	// Waiting tasks are extended tasks blocked in WaitEvent, parked until a
	// SetEvent call supplies one of their awaited bits.
	Waiting
)

// String renders a TaskState for logs and test failures.
func (s TaskState) String() string {
	switch s {
	case Dormant:
		return "Dormant"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	default:
		return "Unknown"
	}
}

// EntryFunc is a task body. It receives the argument bound at configuration
// time and runs to completion (or to its next suspension point) on whatever
// execution context the Port chooses to run it on.
type EntryFunc func(arg any)

// ActionKind tags the three shapes an alarm or expiry-point action can take.
type ActionKind uint8

const (
	// ActivateTaskAction activates Target when the alarm/expiry point fires.
	ActivateTaskAction ActionKind = iota
	// SetEventAction sets Mask on Target when the alarm/expiry point fires.
	SetEventAction
	// CallbackAction invokes Callback when the alarm/expiry point fires.
	// Callbacks run with interrupts masked: they must be bounded and
	// non-blocking, a contract the kernel does not enforce.
	CallbackAction
)

// Action is the tagged union of the three things an alarm or an expiry
// point can do when it fires.
type Action struct {
	Kind     ActionKind
	Target   TaskID    // valid for ActivateTaskAction and SetEventAction
	Mask     EventMask // valid for SetEventAction
	Callback func()    // valid for CallbackAction
}

// fire dispatches the action. The alarm and schedule-table engines run
// inside the tick critical section, so fire is always invoked with the
// interrupt mask already held and must route through the locked variants of
// the task and event APIs rather than their public wrappers.
func (a Action) fire(k *Kernel) {
	switch a.Kind {
	case ActivateTaskAction:
		k.activateTaskLocked(a.Target)
	case SetEventAction:
		k.setEventLocked(a.Target, a.Mask)
	case CallbackAction:
		if a.Callback != nil {
			a.Callback()
		}
	}
}
