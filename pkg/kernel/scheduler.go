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

// schedule selects the next runnable task and pends a context switch to it.
// Callable from ISR or thread context; the caller must already hold the
// interrupt mask (see Kernel.masked).
func (k *Kernel) schedule() {
	if k.next != nil {
		// A switch is already pending.
		return
	}

	tid, ok := k.rq.pop()
	if !ok {
		tid = k.tasks.idle
	} else if k.tasks.get(tid).state != Ready {
		// Stale activation / logic error: fall back to Idle rather than
		// run a task the ready queue thinks is runnable but the TCB does
		// not.
		if k.Debug {
			k.log.WithField("task_id", tid).Debug("scheduler inconsistency: popped task not Ready, falling back to Idle")
		}
		tid = k.tasks.idle
	}

	if tid != k.tasks.idle {
		k.tasks.get(tid).state = Running
	}

	k.next = &tid
	// A real port pairs this with a DSB/ISB barrier before returning from
	// the masked section; the software port's TriggerSwitch has no memory
	// ordering to enforce since it runs under a Go mutex, but the call
	// site is kept in the same place a bare-metal port would need it.
	k.port.TriggerSwitch(uint8(tid))
}
