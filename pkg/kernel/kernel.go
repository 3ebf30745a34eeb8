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
	"github.com/TuanKhoa1701/RTOS-VCU/internal/port"
	"github.com/sirupsen/logrus"
)

// TaskConfig statically declares one task: its entry point, its bound
// argument, and whether it may call WaitEvent.
type TaskConfig struct {
	Entry      port.EntryFunc
	Arg        any
	IsExtended bool
}

// CounterConfig statically declares one counter.
type CounterConfig struct {
	MaxAllowedValue uint32
	TicksPerBase    uint32
	MinCycle        uint32
}

// ExpiryPointConfig statically declares one expiry point within a
// ScheduleTableConfig.
type ExpiryPointConfig struct {
	Offset uint32
	Action Action
}

// ScheduleTableConfig statically declares one schedule table.
type ScheduleTableConfig struct {
	Counter      CounterID
	Duration     uint32
	Cyclic       bool
	ExpiryPoints []ExpiryPointConfig
}

// Config is the full static configuration consumed by New: the task table,
// the counter set, and the schedule tables. Alarms are not statically armed
// here; SetRelAlarm/SetAbsAlarm are runtime calls made from application task
// bodies, not configuration.
type Config struct {
	Tasks          []TaskConfig
	InitTask       TaskID
	IdleTask       TaskID
	Counters       []CounterConfig
	ScheduleTables []ScheduleTableConfig
	MaxAlarms      int
}

// Kernel holds every piece of process-wide kernel state: the task table, the
// ready queue, the (current, next) scheduler pair, counters, alarms, and
// schedule tables. Every field reachable from an exported method is mutated
// only inside masked. Fine-grained locks are deliberately absent; the core
// models a single CPU with an interrupt hierarchy, where one global mask is
// the whole story.
//
// Debug gates verbose tracing the way a release build would compile it out;
// see masked and the per-operation Debug call sites.
type Kernel struct {
	Debug bool

	port port.Port

	tasks    *taskTable
	rq       *readyQueue
	initTask TaskID

	current TaskID
	next    *TaskID

	counters       []*counter
	alarms         []*alarm
	scheduleTables []*scheduleTable

	log *logrus.Entry
}

// New constructs a Kernel from a static Config. It does not yet touch the
// port; call OS_Init for that.
func New(p port.Port, cfg Config) *Kernel {
	k := &Kernel{
		port:     p,
		tasks:    newTaskTable(len(cfg.Tasks), cfg.IdleTask),
		rq:       newReadyQueue(len(cfg.Tasks) - 1),
		initTask: cfg.InitTask,
		log:      logrus.WithField("component", "kernel"),
	}
	for i, tc := range cfg.Tasks {
		t := k.tasks.get(TaskID(i))
		t.entry = tc.Entry
		t.arg = tc.Arg
		t.isExtended = tc.IsExtended
	}

	k.counters = make([]*counter, len(cfg.Counters))
	for i, cc := range cfg.Counters {
		k.counters[i] = newCounter(CounterID(i), cc.MaxAllowedValue, cc.TicksPerBase, cc.MinCycle)
	}

	k.alarms = make([]*alarm, cfg.MaxAlarms)
	for i := range k.alarms {
		k.alarms[i] = &alarm{id: AlarmID(i)}
	}

	k.scheduleTables = make([]*scheduleTable, len(cfg.ScheduleTables))
	for i, stc := range cfg.ScheduleTables {
		eps := make([]expiryPoint, len(stc.ExpiryPoints))
		for j, epc := range stc.ExpiryPoints {
			eps[j] = expiryPoint{offset: epc.Offset, action: epc.Action}
		}
		k.scheduleTables[i] = newScheduleTable(TableID(i), stc.Counter, stc.Duration, stc.Cyclic, eps)
	}

	return k
}

// masked runs fn with the port's global interrupt mask held, restoring it on
// every exit path including a panic unwind. This is the sole place Kernel
// state mutations are permitted. The mask is not reentrant: exported entry
// points take it exactly once, and everything they call while holding it
// stays on the locked-variant internal paths.
func (k *Kernel) masked(fn func()) {
	tok := k.port.MaskInterrupts()
	defer k.port.RestoreInterrupts(tok)
	fn()
}

// OS_Init wires static state: binds each task's initial stack, sets initial
// task states, resets the ready queue, and hands control to the port for
// one-time bring-up. Interrupts are masked for the whole call.
func (k *Kernel) OS_Init() error {
	var initErr error
	k.masked(func() {
		initErr = k.port.Init()
		if initErr != nil {
			return
		}
		for i := range k.tasks.tasks {
			id := TaskID(i)
			t := k.tasks.get(id)
			if id == k.initTask || id == k.tasks.idle {
				t.state = Ready
			} else {
				t.state = Dormant
			}
			t.sp = k.port.StackInit(uint8(id), t.entry, t.arg)
		}
		k.rq.reset()
		k.current = k.initTask
		// Init is seeded directly into "current" by OS_Start's trap, not
		// pushed onto the ready queue: the ready queue only ever holds
		// tasks waiting for the CPU, and Init is about to own it.
	})
	return initErr
}

// OS_Start issues the software trap that starts the Init task. On real
// hardware this never returns: the trap handler discards the caller's
// context entirely and resumes at Init's entry point on Init's own stack.
// The software port has no caller context to discard, so OS_Start instead
// dispatches Init the same way any other switch is dispatched and returns;
// the equivalent "never returns" is the caller blocking on the port's own
// run loop afterward (see swport.Wait), not OS_Start itself.
func (k *Kernel) OS_Start() {
	k.masked(func() {
		tid := k.current
		k.tasks.get(tid).state = Running
		k.port.TriggerSwitch(uint8(tid))
	})
}

// CompleteSwitch is the switch handler's kernel-side counterpart: once a
// Port has actually handed CPU ownership to tid, it calls this to publish
// current = tid and clear next. Clearing next belongs solely to the switch
// handler after completion; on a goroutine-backed port that handler is
// whatever dispatches the next task's goroutine, not the schedule() call
// that merely requested the switch, so this is exposed as its own method
// rather than folded into schedule().
func (k *Kernel) CompleteSwitch(tid TaskID) {
	k.masked(func() {
		k.current = tid
		k.next = nil
	})
}

// TaskEntryReturned is the task-exit trampoline's kernel-side counterpart:
// falling off a task's entry is treated as TerminateTask. A Port calls this
// when tid's entry function returns control instead of the task calling
// TerminateTask/ChainTask itself.
func (k *Kernel) TaskEntryReturned(tid TaskID) {
	k.masked(func() {
		k.tasks.get(tid).state = Dormant
		k.schedule()
	})
	k.port.TaskExit()
}

// OnTick is the single core entry the tick ISR calls: it advances counter 0,
// runs the alarm engine and then the schedule-table engine against it, in
// that order, and pends a switch if Idle is currently running and nothing is
// already pending.
func (k *Kernel) OnTick() {
	k.masked(func() {
		if len(k.counters) == 0 {
			return
		}
		c := k.counters[0]
		value := c.tick()

		for _, a := range k.alarms {
			a.tick(k)
		}
		for _, st := range k.scheduleTables {
			if st.counter == 0 {
				st.advance(value, c.maxAllowedValue, k)
			}
		}

		if k.current == k.tasks.idle && k.next == nil {
			k.schedule()
		}
	})
}
