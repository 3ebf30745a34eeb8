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

// alarm is a one-shot or cyclic deferred action bound to a counter.
type alarm struct {
	id     AlarmID
	active bool
	remain uint32
	cycle  uint32 // 0 = one-shot, else reload value
	action Action
}

// armRel arms (or re-arms, in place) an alarm to fire in delayTicks ticks,
// reloading to cycleTicks on every subsequent firing when cycleTicks > 0.
// Re-arming an already-active alarm overwrites it rather than stacking a
// second firing.
func (a *alarm) armRel(delayTicks, cycleTicks uint32, action Action) {
	a.active = true
	a.remain = delayTicks
	a.cycle = cycleTicks
	a.action = action
}

// tick decrements remain by one tick and fires the alarm's action when it
// reaches zero, reloading for cyclic alarms or deactivating for one-shot
// ones. The action runs before remain is reloaded.
func (a *alarm) tick(k *Kernel) {
	if !a.active {
		return
	}
	a.remain--
	if a.remain != 0 {
		return
	}
	a.action.fire(k)
	if a.cycle > 0 {
		a.remain = a.cycle
	} else {
		a.active = false
	}
}
