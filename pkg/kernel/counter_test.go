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

import "testing"

// TestDiffWrapCounterWrapExample pins the wrap boundary: with max=10 a
// counter that started at 8 and now reads 2 has 4 elapsed ticks, not a
// huge unsigned residue.
func TestDiffWrapCounterWrapExample(t *testing.T) {
	if got := diffWrap(2, 8, 10); got != 4 {
		t.Errorf("diffWrap(2, 8, 10) = %d, want 4", got)
	}
}

func TestDiffWrapNoWrap(t *testing.T) {
	if got := diffWrap(7, 3, 100); got != 4 {
		t.Errorf("diffWrap(7, 3, 100) = %d, want 4", got)
	}
}

func TestDiffWrapZeroElapsed(t *testing.T) {
	if got := diffWrap(5, 5, 10); got != 0 {
		t.Errorf("diffWrap(5, 5, 10) = %d, want 0", got)
	}
}

func TestDiffWrapAddWrapsOrigin(t *testing.T) {
	if got := diffWrapAdd(8, 5, 10); got != 3 {
		t.Errorf("diffWrapAdd(8, 5, 10) = %d, want 3", got)
	}
	// Near the top of the uint32 range the addition must not overflow
	// before the modulus is taken.
	if got := diffWrapAdd(4294967290, 20, 4294967291); got != 19 {
		t.Errorf("diffWrapAdd(2^32-6, 20, 2^32-5) = %d, want 19", got)
	}
}

func TestCounterTickMaintainsInvariant(t *testing.T) {
	c := newCounter(0, 5, 1, 1)
	for i := 0; i < 12; i++ {
		v := c.tick()
		if v >= c.maxAllowedValue {
			t.Fatalf("tick %d: current_value = %d, want < %d", i, v, c.maxAllowedValue)
		}
	}
	// 12 ticks against a modulo-5 counter: 1,2,3,4,0,1,2,3,4,0,1,2
	if c.currentValue != 2 {
		t.Errorf("currentValue after 12 ticks = %d, want 2", c.currentValue)
	}
}

func TestMsToTicksRoundsUp(t *testing.T) {
	if got := msToTicks(5, 2, 1000); got != 3 {
		t.Errorf("msToTicks(5, 2, 1000) = %d, want 3 (ceil(5/2))", got)
	}
}

func TestMsToTicksMinimumOneForNonZeroInput(t *testing.T) {
	if got := msToTicks(1, 10, 1000); got != 1 {
		t.Errorf("msToTicks(1, 10, 1000) = %d, want 1 (rounds up to at least 1 tick)", got)
	}
}

func TestMsToTicksZeroStaysZero(t *testing.T) {
	if got := msToTicks(0, 1, 1000); got != 0 {
		t.Errorf("msToTicks(0, 1, 1000) = %d, want 0", got)
	}
}

// TestMsToTicksModuloCollapsesLongDelays documents preserved (surprising)
// behavior: a delay long enough to exceed the counter's max_allowed_value
// silently collapses modulo that max rather than being clamped or rejected.
func TestMsToTicksModuloCollapsesLongDelays(t *testing.T) {
	if got := msToTicks(25, 1, 10); got != 5 {
		t.Errorf("msToTicks(25, 1, 10) = %d, want 5 (25 mod 10)", got)
	}
}
