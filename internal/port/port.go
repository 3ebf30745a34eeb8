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

// Package port declares the oracle the kernel core consumes for everything
// that is genuinely target-specific: clock source, context-switch pending,
// the global interrupt mask, initial stack construction, and idling the
// CPU. A concrete MCU port (board bring-up, the assembly PendSV/SVC
// handlers, the initial hardware-frame layout) is out of scope for this
// repository; internal/port/swport provides a goroutine-backed software
// port so the kernel core is runnable and testable without one.
package port

// Stack is an opaque handle to a task's initial execution context, as
// produced by StackInit. The kernel never inspects it; only a Port does.
type Stack interface{}

// InterruptState is the opaque token MaskInterrupts returns and
// RestoreInterrupts consumes, the way ARM's PRIMASK/BASEPRI save/restore
// pair is typically wrapped in a real port.
type InterruptState interface{}

// EntryFunc is a task body: it receives the argument bound at
// configuration time. The kernel package defines the identical type;
// ports only need the shape, not the kernel package itself, to avoid an
// import cycle between a port and the kernel that drives it.
type EntryFunc func(arg any)

// Port is the set of primitives a concrete target (or a software
// simulation of one) must supply. All methods may be called with the
// global interrupt mask already held by the caller except where noted.
type Port interface {
	// Init performs one-time bring-up: priority configuration and stack
	// alignment for exception entry. Called once from OS_Init with
	// interrupts masked.
	Init() error

	// StartTick (re)programs the tick source to fire at hz Hz. The tick
	// frequency is a deployment concern, not part of kernel.Config, so
	// OS_Init does not call this itself: the caller wires it in once,
	// after OS_Init and before OS_Start, the way config.StaticConfig's
	// TickHz is consumed by cmd/oskernel rather than threaded through
	// kernel.Config.
	StartTick(hz uint32)

	// StackInit builds the initial execution context for entry(arg) and
	// returns the handle to store in the owning TCB. Called on every
	// Dormant→Ready transition, since tasks must be able to restart after
	// terminating.
	StackInit(id uint8, entry EntryFunc, arg any) Stack

	// TriggerSwitch pends a context switch to task id next. The actual
	// switch runs once the caller's critical section (ISR or masked
	// thread code) unwinds; TriggerSwitch itself must not block so it
	// stays safe to call with the interrupt mask held.
	//
	// A real port's trigger-switch primitive takes no argument because the
	// switch handler reads the pending target off shared kernel state
	// (next) itself. A goroutine-backed port has no such shared access to
	// kernel internals, so next is passed explicitly.
	TriggerSwitch(next uint8)

	// MaskInterrupts acquires the global interrupt mask and returns a
	// token for RestoreInterrupts. The mask is not reentrant: the kernel
	// takes it exactly once per exported entry point, and everything
	// reached while holding it stays on internal paths that do not mask
	// again.
	MaskInterrupts() InterruptState

	// RestoreInterrupts releases the mask acquired by MaskInterrupts.
	RestoreInterrupts(InterruptState)

	// Idle blocks the calling execution context until the next interrupt,
	// the software stand-in for a WFI/WFE instruction. Only ever invoked
	// by the Idle task's body.
	Idle()

	// TaskExit is installed as the task-exit trampoline: if a task body
	// ever returns instead of calling TerminateTask/ChainTask, the port's
	// caller arranges for this to run instead of falling back into
	// undefined caller state.
	TaskExit()

	// PrepareBlock registers task id's intent to park before the kernel
	// publishes its Waiting state. Called with the interrupt mask held, so
	// the registration and the state change are one atomic step from any
	// waker's point of view: a wake arriving after the mask is released
	// finds the registration already in place and cannot be lost.
	PrepareBlock(id uint8)

	// Block suspends the calling execution context for task id, previously
	// registered via PrepareBlock, until a later switch resumes it in
	// place. Called with the interrupt mask released.
	//
	// PrepareBlock and Block have no hardware analog; real hardware needs
	// neither because a task that does not get switched to simply does not
	// run. A goroutine-backed simulation has no such luxury: a task parked
	// in WaitEvent is a live goroutine that must be told to stop, so the
	// software port needs an explicit two-phase park.
	Block(id uint8)
}
