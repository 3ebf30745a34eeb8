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

// SetRelAlarm arms alarm aid, bound to counter 0, to fire delayMs from now,
// reloading every cycleMs thereafter (0 = one-shot). Re-arming an already
// active alarm overwrites it in place, which makes back-to-back calls with
// identical arguments idempotent. A non-zero cycle shorter than the
// counter's min_cycle is rejected as a whole: the call is silently ignored.
func (k *Kernel) SetRelAlarm(aid AlarmID, delayMs, cycleMs uint32, action Action) {
	k.masked(func() {
		if int(aid) >= len(k.alarms) || len(k.counters) == 0 {
			return
		}
		c := k.counters[0]
		delayTicks := msToTicks(delayMs, c.ticksPerBase, c.maxAllowedValue)
		cycleTicks := msToTicks(cycleMs, c.ticksPerBase, c.maxAllowedValue)
		if cycleTicks > 0 && cycleTicks < c.minCycle {
			if k.Debug {
				k.log.WithField("alarm_id", aid).Debug("SetRelAlarm cycle below counter min_cycle ignored")
			}
			return
		}
		k.alarms[aid].armRel(delayTicks, cycleTicks, action)
	})
}

// SetAbsAlarm arms alarm aid to fire when counter 0 reaches absTicks,
// reloading every cycleTicks thereafter. A delta of zero (the target is the
// current value) is treated as one full cycle away, not an immediate fire.
func (k *Kernel) SetAbsAlarm(aid AlarmID, absTicks, cycleTicks uint32, action Action) {
	k.masked(func() {
		if int(aid) >= len(k.alarms) || len(k.counters) == 0 {
			return
		}
		c := k.counters[0]
		if cycleTicks > 0 && cycleTicks < c.minCycle {
			if k.Debug {
				k.log.WithField("alarm_id", aid).Debug("SetAbsAlarm cycle below counter min_cycle ignored")
			}
			return
		}
		delta := diffWrap(absTicks, c.currentValue, c.maxAllowedValue)
		if delta == 0 {
			delta = c.maxAllowedValue
		}
		k.alarms[aid].armRel(delta, cycleTicks, action)
	})
}

// CancelAlarm deactivates alarm aid without firing it. An inactive or
// out-of-range alarm is left alone.
func (k *Kernel) CancelAlarm(aid AlarmID) {
	k.masked(func() {
		if int(aid) >= len(k.alarms) {
			return
		}
		k.alarms[aid].active = false
	})
}
