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

import "github.com/TuanKhoa1701/RTOS-VCU/internal/port"

// tcb is one Task Control Block. sp is deliberately the first field: a real
// port's switch handler reads and writes a task's saved stack pointer at
// offset zero, and this layout documents that contract even though the
// software port in this repository addresses it by name, not by offset.
type tcb struct {
	sp port.Stack

	id         TaskID
	state      TaskState
	setEvents  EventMask
	waitEvents EventMask
	isExtended bool

	entry port.EntryFunc
	arg   any
}

// taskTable holds every statically declared TCB. Each tcb carries its own
// entry/arg binding so restarting a task on a fresh Dormant to Ready
// transition never has to guess what it was configured to run.
type taskTable struct {
	tasks []tcb
	idle  TaskID
}

func newTaskTable(count int, idle TaskID) *taskTable {
	tasks := make([]tcb, count)
	for i := range tasks {
		tasks[i].id = TaskID(i)
		tasks[i].state = Dormant
	}
	return &taskTable{tasks: tasks, idle: idle}
}

func (t *taskTable) valid(tid TaskID) bool {
	return int(tid) < len(t.tasks)
}

func (t *taskTable) get(tid TaskID) *tcb {
	return &t.tasks[tid]
}
