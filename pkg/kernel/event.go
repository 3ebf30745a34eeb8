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

// WaitEvent is called by the currently running extended task. If none of the
// requested bits are already pending in set_events, the task is parked: its
// wait_events is recorded, its state becomes Waiting, and a switch away from
// it is scheduled unconditionally. A task that must wait can never correctly
// keep running, so unlike ActivateTask's wake path the switch here is not
// gated on Idle owning the CPU.
//
// The park itself is two-phase: the port's wait registration (PrepareBlock)
// happens inside the critical section that publishes the Waiting state, and
// only the actual wait (Block) runs with interrupts unmasked. A SetEvent
// landing between the two therefore finds the registration already in place
// and cannot slip a wake past the park.
//
// If a requested bit is already pending, the call returns immediately and
// the task keeps running. Calling WaitEvent from a basic task is a state
// rule violation and is silently ignored.
func (k *Kernel) WaitEvent(mask EventMask) {
	var mustWait bool
	var tid TaskID
	k.masked(func() {
		tid = k.current
		t := k.tasks.get(tid)
		if !t.isExtended {
			if k.Debug {
				k.log.WithField("task_id", tid).Debug("WaitEvent on a basic task ignored")
			}
			return
		}
		if t.setEvents&mask != 0 {
			return
		}
		t.waitEvents = mask
		t.state = Waiting
		mustWait = true
		k.port.PrepareBlock(uint8(tid))
		k.schedule()
	})
	if mustWait {
		k.port.Block(uint8(tid))
	}
}

// SetEvent ORs mask into tid's set_events. If tid is Waiting and any bit of
// its wait_events is now present, wait_events is cleared and the task is
// transitioned to Ready through the same path ActivateTask takes, stack
// rebuild included. Targets that are out of range or not extended are
// silently ignored.
func (k *Kernel) SetEvent(tid TaskID, mask EventMask) {
	k.masked(func() {
		k.setEventLocked(tid, mask)
	})
}

// setEventLocked is SetEvent with the interrupt mask already held by the
// caller, for the alarm and schedule-table engines firing from inside the
// tick critical section.
func (k *Kernel) setEventLocked(tid TaskID, mask EventMask) {
	if !k.tasks.valid(tid) {
		return
	}
	t := k.tasks.get(tid)
	if !t.isExtended {
		if k.Debug {
			k.log.WithField("task_id", tid).Debug("SetEvent on a basic task ignored")
		}
		return
	}
	t.setEvents |= mask
	if t.state == Waiting && t.waitEvents&t.setEvents != 0 {
		t.waitEvents = 0
		k.activateTaskLocked(tid)
	}
}

// GetEvent returns tid's set_events. Out-of-range ids return an empty mask.
func (k *Kernel) GetEvent(tid TaskID) EventMask {
	var out EventMask
	k.masked(func() {
		if !k.tasks.valid(tid) {
			return
		}
		out = k.tasks.get(tid).setEvents
	})
	return out
}

// ClearEvent clears mask from the currently running task's set_events.
func (k *Kernel) ClearEvent(mask EventMask) {
	k.masked(func() {
		t := k.tasks.get(k.current)
		t.setEvents &^= mask
	})
}
