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

// Package swport is a goroutine-backed software realization of the
// internal/port.Port oracle, standing in for a concrete MCU port. One
// goroutine runs each task activation; a semaphore.Weighted(1) models the
// single CPU core, exactly one task goroutine holding it at a time, released
// and re-acquired on every simulated context switch, the software equivalent
// of the port's lowest-priority switch handler handing the register frame
// from one task's stack to another's.
package swport

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/TuanKhoa1701/RTOS-VCU/internal/port"
	"github.com/TuanKhoa1701/RTOS-VCU/pkg/kernel"
)

const defaultIdlePoll = 2 * time.Millisecond

type binding struct {
	entry port.EntryFunc
	arg   any
}

// Option configures a Port at construction time.
type Option func(*Port)

// WithManualTick disables the free-running tick goroutine StartTick would
// otherwise start; the caller drives OnTick via Tick() instead. This exists
// so tests can deterministically replay a specific tick sequence, including
// delivering a burst of many ticks between two calls, which a real-time
// ticker cannot reproduce reliably.
func WithManualTick() Option {
	return func(p *Port) { p.manualTick = true }
}

// WithIdlePoll overrides the interval Idle re-checks for a wake signal,
// mostly useful to shorten test run time.
func WithIdlePoll(d time.Duration) Option {
	return func(p *Port) { p.idlePoll = d }
}

// Port is the software Port implementation. Construct with New, bind it to
// a *kernel.Kernel with Bind (the two are constructed in two phases to break
// the circular dependency between a Kernel, which needs a Port at
// construction, and a Port's dispatch goroutines, which need to call back
// into the Kernel they serve).
type Port struct {
	// irqMu is the global interrupt mask Kernel.masked acquires and
	// releases via MaskInterrupts/RestoreInterrupts. It is held across
	// whole kernel operations, including calls back into this port (e.g.
	// StackInit, TriggerSwitch) made from inside a masked section, so it
	// must never be the same lock those methods take for their own
	// bookkeeping, or a masked section would deadlock against itself.
	irqMu sync.Mutex

	// mu guards bindings, parked, and idleLive, independent of the
	// interrupt mask.
	mu       sync.Mutex
	bindings map[uint8]binding
	parked   map[uint8]chan struct{}
	idleLive bool

	sem *semaphore.Weighted

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	wake chan struct{}

	manualTick bool
	idlePoll   time.Duration
	tickHz     uint32
	stopTick   chan struct{}

	kernel *kernel.Kernel
	idle   uint8
	log    *logrus.Entry
}

// New constructs an unbound Port. Call Bind before using it.
func New(opts ...Option) *Port {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Port{
		bindings: make(map[uint8]binding),
		parked:   make(map[uint8]chan struct{}),
		sem:      semaphore.NewWeighted(1),
		group:    &errgroup.Group{},
		ctx:      ctx,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		idlePoll: defaultIdlePoll,
		log:      logrus.WithField("component", "swport"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Bind completes construction by giving the port the Kernel it serves and
// the id of the Idle task. Idle is the one task whose goroutine stays alive
// across selections (it loops in Idle() instead of terminating), so
// TriggerSwitch needs to know which id that is to resume the existing
// goroutine rather than dispatch a fresh one each time the scheduler falls
// back to it.
func (p *Port) Bind(k *kernel.Kernel, idle kernel.TaskID) {
	p.kernel = k
	p.idle = uint8(idle)
}

// Init satisfies port.Port. There is no real bring-up to do in software; it
// exists so callers that type-switch on a generic Port still get a sane
// zero-cost Init.
func (p *Port) Init() error {
	return nil
}

// StartTick starts a free-running ticker that calls the kernel's OnTick at
// hz Hz, unless the port was built with WithManualTick, in which case this
// only records hz and the caller drives ticks with Tick().
func (p *Port) StartTick(hz uint32) {
	p.tickHz = hz
	if p.manualTick || hz == 0 {
		return
	}
	period := time.Second / time.Duration(hz)
	stop := make(chan struct{})
	p.stopTick = stop
	p.group.Go(func() error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.kernel.OnTick()
				p.signalWake()
			case <-stop:
				return nil
			case <-p.ctx.Done():
				return nil
			}
		}
	})
}

// Tick drives one OnTick synchronously. Valid only when the port was
// constructed with WithManualTick.
func (p *Port) Tick() {
	p.kernel.OnTick()
	p.signalWake()
}

func (p *Port) signalWake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// StackInit records the entry/arg binding for id so a later TriggerSwitch
// knows what to run; the returned Stack is an opaque placeholder, since the
// software port has no real stack pointer for the kernel to store.
func (p *Port) StackInit(id uint8, entry port.EntryFunc, arg any) port.Stack {
	p.mu.Lock()
	p.bindings[id] = binding{entry: entry, arg: arg}
	p.mu.Unlock()
	return id
}

// TriggerSwitch dispatches task id next.
//
// Three cases, in order. A task parked in Block (it yielded via WaitEvent)
// is resumed in place by closing its park channel. The Idle task, whose
// goroutine loops forever instead of terminating, is woken rather than
// respawned once it exists. Everything else is a fresh activation whose
// initial context StackInit just rebuilt, so a new goroutine runs its bound
// entry from the top; if the task's previous incarnation is still unwinding
// through TaskExit, the semaphore serializes the new goroutine behind it.
//
// In every case Kernel.CompleteSwitch is published on a freshly dispatched
// goroutine, and the shared semaphore is acquired either by that goroutine
// (fresh activation) or by the resumed one (in Block or Idle), never
// synchronously here, so TriggerSwitch stays safe to call with the kernel's
// interrupt mask held.
func (p *Port) TriggerSwitch(next uint8) {
	p.signalWake()
	id := kernel.TaskID(next)

	p.mu.Lock()
	if ch, wasParked := p.parked[next]; wasParked {
		delete(p.parked, next)
		p.mu.Unlock()
		p.group.Go(func() error {
			p.kernel.CompleteSwitch(id)
			close(ch)
			return nil
		})
		return
	}
	if next == p.idle && p.idleLive {
		p.mu.Unlock()
		p.group.Go(func() error {
			p.kernel.CompleteSwitch(id)
			p.signalWake()
			return nil
		})
		return
	}
	if next == p.idle {
		p.idleLive = true
	}
	b := p.bindings[next]
	p.mu.Unlock()

	p.group.Go(func() error {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return nil
		}
		p.kernel.CompleteSwitch(id)
		if b.entry != nil {
			b.entry(b.arg)
		}
		p.kernel.TaskEntryReturned(id)
		return nil
	})
}

// MaskInterrupts acquires the software interrupt mask.
func (p *Port) MaskInterrupts() port.InterruptState {
	p.irqMu.Lock()
	return struct{}{}
}

// RestoreInterrupts releases the software interrupt mask.
func (p *Port) RestoreInterrupts(port.InterruptState) {
	p.irqMu.Unlock()
}

// Idle releases the CPU semaphore, waits for the next wake signal (a tick or
// a triggered switch, this port's stand-in for "the next interrupt") or a
// bounded poll interval, then reacquires it before returning. Releasing the
// semaphore while idling is what lets another task's dispatch goroutine make
// progress; a real CPU in WFI is likewise not holding anything exclusively.
// During shutdown the reacquire fails and the idle goroutine exits instead
// of returning into its loop without the CPU.
func (p *Port) Idle() {
	p.sem.Release(1)
	select {
	case <-p.wake:
	case <-time.After(p.idlePoll):
	case <-p.ctx.Done():
	}
	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		runtime.Goexit()
	}
}

// TaskExit ends the calling task goroutine, the software equivalent of
// "noreturn; loops in a low-power wait". Used both for a task falling off
// its entry and for TerminateTask's "never fall through" requirement; the
// goroutine's own deferred frames still run, but control never returns to
// the task body. A later ActivateTask always dispatches a fresh goroutine.
func (p *Port) TaskExit() {
	p.sem.Release(1)
	runtime.Goexit()
}

// PrepareBlock registers the park channel for task id. Called by the kernel
// with the interrupt mask held, in the same critical section that publishes
// the task's Waiting state, so no wake can observe the state without also
// observing the registration.
func (p *Port) PrepareBlock(id uint8) {
	ch := make(chan struct{})
	p.mu.Lock()
	p.parked[id] = ch
	p.mu.Unlock()
}

// Block suspends the calling goroutine (task id) on the channel PrepareBlock
// registered until a later TriggerSwitch names it as next, releasing the CPU
// semaphore while parked and re-acquiring it before returning. During
// shutdown the goroutine exits rather than resuming a task body that no
// longer owns the CPU.
func (p *Port) Block(id uint8) {
	p.mu.Lock()
	ch, ok := p.parked[id]
	p.mu.Unlock()
	if !ok {
		return
	}

	p.sem.Release(1)
	select {
	case <-ch:
	case <-p.ctx.Done():
		runtime.Goexit()
	}
	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		runtime.Goexit()
	}
}

// Wait blocks until every dispatched task goroutine and the tick goroutine
// (if any) have exited, which in practice means until Shutdown cancels them;
// this is the software port's answer to "OS_Start never returns", the
// caller's equivalent non-return is blocking here.
func (p *Port) Wait() error {
	return p.group.Wait()
}

// Shutdown cancels every outstanding goroutine the port has dispatched and
// stops the tick source, so Wait returns. Intended for tests and for a demo
// binary's graceful-exit path; a real target has no analog since it never
// shuts down.
func (p *Port) Shutdown() {
	if p.stopTick != nil {
		close(p.stopTick)
	}
	p.cancel()
	p.log.Debug("port shut down")
}
