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
	"testing"

	"github.com/TuanKhoa1701/RTOS-VCU/internal/port"
)

// fakePort is a minimal synchronous port.Port used by this package's tests.
// Unlike swport, it never spawns a goroutine and TriggerSwitch never calls
// back into the kernel on its own: tests drive CompleteSwitch explicitly,
// the same way a real switch handler would, so every state transition in a
// test is a single deterministic step rather than a race against another
// goroutine.
type fakePort struct {
	initCalls  int
	stackInits []uint8
	switches   []uint8
	idleCalls  int
	taskExits  int
	prepares   []uint8
	blocks     []uint8
}

func (p *fakePort) Init() error {
	p.initCalls++
	return nil
}

func (p *fakePort) StartTick(hz uint32) {}

func (p *fakePort) StackInit(id uint8, entry port.EntryFunc, arg any) port.Stack {
	p.stackInits = append(p.stackInits, id)
	return id
}

func (p *fakePort) TriggerSwitch(next uint8) {
	p.switches = append(p.switches, next)
}

func (p *fakePort) MaskInterrupts() port.InterruptState { return struct{}{} }

func (p *fakePort) RestoreInterrupts(port.InterruptState) {}

func (p *fakePort) Idle() { p.idleCalls++ }

func (p *fakePort) TaskExit() { p.taskExits++ }

func (p *fakePort) PrepareBlock(id uint8) { p.prepares = append(p.prepares, id) }

func (p *fakePort) Block(id uint8) { p.blocks = append(p.blocks, id) }

// newTestKernel builds a Kernel with nonIdleCount basic/extended tasks plus
// a trailing Idle task, wired to a fakePort, and runs OS_Init. Task 0 is
// always Init.
func newTestKernel(t testing.TB, nonIdleCount int, extended ...TaskID) (*Kernel, *fakePort) {
	total := nonIdleCount + 1
	idle := TaskID(total - 1)

	isExtended := make(map[TaskID]bool, len(extended))
	for _, e := range extended {
		isExtended[e] = true
	}

	cfg := Config{
		Tasks:     make([]TaskConfig, total),
		InitTask:  0,
		IdleTask:  idle,
		Counters:  []CounterConfig{{MaxAllowedValue: 1000, TicksPerBase: 1, MinCycle: 1}},
		MaxAlarms: 4,
	}
	for i := range cfg.Tasks {
		cfg.Tasks[i] = TaskConfig{IsExtended: isExtended[TaskID(i)]}
	}

	p := &fakePort{}
	k := New(p, cfg)
	if err := k.OS_Init(); err != nil {
		t.Fatalf("OS_Init: %v", err)
	}
	return k, p
}

// setRunning forces tid's TCB state to Running and makes it current,
// simulating a prior context switch a test doesn't need to replay step by
// step to set up its scenario.
func setRunning(k *Kernel, tid TaskID) {
	k.tasks.get(tid).state = Running
	k.current = tid
}
