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

// Package kernel implements the concurrency core of a minimal OSEK-style
// static real-time kernel: the task state machine and ready queue, the
// preemption/context-switch protocol, the event synchronization primitives,
// the counter/alarm engine, and the schedule-table engine.
//
// The kernel itself never touches hardware. It drives a Port (see the
// internal/port package) for the five primitives a concrete target must
// supply: tick configuration, context-switch pending, the global interrupt
// mask, initial task stack construction, and idling the CPU. Everything in
// this package is single-core, run-to-completion for basic tasks, and
// preemptible only by Idle.
package kernel
