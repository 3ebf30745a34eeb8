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

package main

import (
	"github.com/sirupsen/logrus"

	"github.com/TuanKhoa1701/RTOS-VCU/internal/port"
	"github.com/TuanKhoa1701/RTOS-VCU/internal/port/swport"
	"github.com/TuanKhoa1701/RTOS-VCU/pkg/kernel"
)

// eventWakeBit is the event bit task B waits on in the demo configuration;
// task A sets it once per activation before terminating.
const eventWakeBit kernel.EventMask = 0x1

// Demo task ids, fixed by the conventional {Init, A, B, Idle} ordering every
// kernel.toml fixture in this repository declares. The kernel itself has no
// concept of task names, so the demo binary keeps its own small name-to-id
// table rather than asking the kernel to resolve one.
const (
	demoInitID kernel.TaskID = 0
	demoAID    kernel.TaskID = 1
	demoBID    kernel.TaskID = 2
	demoIdleID kernel.TaskID = 3
)

// demoTasks binds the four conventional demo task names a kernel.toml
// fixture declares to bodies that exercise activation, events, and
// termination without touching any real board peripheral. The demo is
// deliberately small: it exists to give the run subcommand something
// observable to log, not to model a real application.
type demoTasks struct {
	p *swport.Port
	k *kernel.Kernel
}

func newDemoTasks(p *swport.Port) *demoTasks {
	return &demoTasks{p: p}
}

func (d *demoTasks) bind(k *kernel.Kernel) {
	d.k = k
}

func (d *demoTasks) entries() map[string]port.EntryFunc {
	return map[string]port.EntryFunc{
		"Init": d.initTask,
		"A":    d.taskA,
		"B":    d.taskB,
		"Idle": d.idleTask,
	}
}

func (d *demoTasks) args() map[string]any {
	return nil
}

// initTask runs once at boot: it activates the extended task B so B is
// parked in WaitEvent before anything can wake it, starts the demo schedule
// table (tables, like alarms, are armed from application code rather than
// autostarted by configuration), and terminates.
func (d *demoTasks) initTask(_ any) {
	logrus.WithField("task", "Init").Debug("running")
	d.k.ActivateTask(demoBID)
	d.k.StartScheduleTableRel(0, 0)
	d.k.TerminateTask()
}

// taskA is activated by the demo schedule table's expiry points. It
// restarts B if B finished a previous round, wakes it, and terminates,
// run-to-completion. A freshly restarted B finds the sticky bit already
// set when it reaches WaitEvent and returns immediately.
func (d *demoTasks) taskA(_ any) {
	logrus.WithField("task", "A").Debug("running")
	if d.k.GetTaskState(demoBID) == kernel.Dormant {
		d.k.ActivateTask(demoBID)
	}
	d.k.SetEvent(demoBID, eventWakeBit)
	d.k.TerminateTask()
}

// taskB is the sole extended task: it waits for the bit A sets, observes it
// with GetEvent, clears it, and terminates.
func (d *demoTasks) taskB(_ any) {
	logrus.WithField("task", "B").Debug("waiting")
	d.k.WaitEvent(eventWakeBit)
	got := d.k.GetEvent(demoBID)
	logrus.WithField("task", "B").WithField("events", got).Debug("woke")
	d.k.ClearEvent(eventWakeBit)
	d.k.TerminateTask()
}

// idleTask loops forever handing the CPU back to the port between wakeups,
// the demo's stand-in for a real port's WFI-based Idle loop.
func (d *demoTasks) idleTask(_ any) {
	for {
		d.p.Idle()
	}
}
