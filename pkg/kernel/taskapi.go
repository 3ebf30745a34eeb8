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

// ActivateTask transitions tid from Dormant or Waiting to Ready, rebuilding
// its initial stack frame and pushing it onto the ready queue. Out-of-range
// ids, Idle, and tasks already Ready or Running are silently ignored:
// activation does not stack.
func (k *Kernel) ActivateTask(tid TaskID) {
	k.masked(func() {
		k.activateTaskLocked(tid)
	})
}

// activateTaskLocked is ActivateTask with the interrupt mask already held by
// the caller. The alarm and schedule-table engines call this from inside the
// tick critical section, where re-taking the mask would deadlock.
func (k *Kernel) activateTaskLocked(tid TaskID) {
	if !k.tasks.valid(tid) || tid == k.tasks.idle {
		return
	}
	t := k.tasks.get(tid)
	if t.state != Dormant && t.state != Waiting {
		return
	}

	t.sp = k.port.StackInit(uint8(tid), t.entry, t.arg)
	t.state = Ready
	k.rq.push(tid)

	// Low-latency wake: a Ready task may take the CPU away from Idle, and
	// only from Idle. Anything else runs to completion first.
	if k.current == k.tasks.idle && k.next == nil {
		k.schedule()
	}
}

// TerminateTask marks the currently running task Dormant and schedules the
// next one. The calling code must never fall through past this call; on a
// real port that is the caller's job (busy-loop on a no-op until the switch
// lands), realized here by handing the calling goroutine to Port.TaskExit,
// which on the software port ends it,
// the same trampoline a task falling off its entry point lands in. Neither
// path is ever resumed in place: a future ActivateTask always rebuilds a
// fresh execution context, so there is nothing to resume.
func (k *Kernel) TerminateTask() {
	k.masked(func() {
		tid := k.current
		k.tasks.get(tid).state = Dormant
		k.schedule()
	})
	k.port.TaskExit()
}

// ChainTask activates tid and then terminates the calling task, in that
// order.
func (k *Kernel) ChainTask(tid TaskID) {
	k.ActivateTask(tid)
	k.TerminateTask()
}

// GetTaskState returns tid's current state. Out-of-range ids return Dormant,
// the zero value of TaskState; the kernel surfaces no error codes, so there
// is no channel to report the bad id through.
func (k *Kernel) GetTaskState(tid TaskID) TaskState {
	var state TaskState
	k.masked(func() {
		if !k.tasks.valid(tid) {
			return
		}
		state = k.tasks.get(tid).state
	})
	return state
}
