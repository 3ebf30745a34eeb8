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

func TestReadyQueueEmptyOnCreation(t *testing.T) {
	q := newReadyQueue(3)
	if !q.empty() {
		t.Fatal("fresh queue reports non-empty")
	}
	if q.full() {
		t.Fatal("fresh queue reports full")
	}
	if _, ok := q.pop(); ok {
		t.Fatal("pop on empty queue returned ok=true")
	}
}

func TestReadyQueueFIFOOrder(t *testing.T) {
	q := newReadyQueue(3)
	q.push(1)
	q.push(2)
	q.push(3)

	for _, want := range []TaskID{1, 2, 3} {
		got, ok := q.pop()
		if !ok {
			t.Fatalf("pop: ok=false, want true (expected %d)", want)
		}
		if got != want {
			t.Errorf("pop = %d, want %d", got, want)
		}
	}
	if !q.empty() {
		t.Error("queue non-empty after draining everything pushed")
	}
}

func TestReadyQueueFullAtCapacity(t *testing.T) {
	q := newReadyQueue(2)
	q.push(1)
	q.push(2)
	if !q.full() {
		t.Fatal("queue at capacity does not report full")
	}
}

func TestReadyQueuePushWhenFullIsSilentNoOp(t *testing.T) {
	q := newReadyQueue(2)
	q.push(1)
	q.push(2)
	q.push(3) // must be dropped, not overwrite or panic

	got, ok := q.pop()
	if !ok || got != 1 {
		t.Fatalf("pop = (%d, %v), want (1, true)", got, ok)
	}
	got, ok = q.pop()
	if !ok || got != 2 {
		t.Fatalf("pop = (%d, %v), want (2, true)", got, ok)
	}
	if _, ok := q.pop(); ok {
		t.Fatal("third pop succeeded; the overflow push should have been dropped")
	}
}

func TestReadyQueueResetClearsContents(t *testing.T) {
	q := newReadyQueue(3)
	q.push(1)
	q.push(2)
	q.reset()
	if !q.empty() {
		t.Fatal("queue non-empty immediately after reset")
	}
	q.push(9)
	got, ok := q.pop()
	if !ok || got != 9 {
		t.Fatalf("pop after reset+push = (%d, %v), want (9, true)", got, ok)
	}
}

func TestReadyQueueWrapsAroundRingBuffer(t *testing.T) {
	q := newReadyQueue(2)
	// Push/pop repeatedly past the physical end of the backing array so head
	// and tail both wrap at least once, exercising the modulo arithmetic.
	q.push(1)
	q.pop()
	q.push(2)
	q.pop()
	q.push(3)
	q.push(4)
	if !q.full() {
		t.Fatal("queue not full after two pushes following the wrap")
	}
	got, ok := q.pop()
	if !ok || got != 3 {
		t.Fatalf("pop = (%d, %v), want (3, true)", got, ok)
	}
	got, ok = q.pop()
	if !ok || got != 4 {
		t.Fatalf("pop = (%d, %v), want (4, true)", got, ok)
	}
}
