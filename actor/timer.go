/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Castorflow Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"container/heap"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// TimerHandle is a cancellable one-shot or periodic timer bound to an actor.
type TimerHandle struct {
	owner  *ActorRef
	fn     func()
	period time.Duration // 0 for one-shot timers

	cancelled *atomic.Bool

	// due and index are guarded by the owning wheel's mutex
	due   time.Time
	index int
}

func newTimerHandle(owner *ActorRef, fn func(), due time.Time, period time.Duration) *TimerHandle {
	return &TimerHandle{
		owner:     owner,
		fn:        fn,
		period:    period,
		due:       due,
		cancelled: atomic.NewBool(false),
		index:     -1,
	}
}

// Cancel marks the timer cancelled. A cancelled timer never fires after the
// cancellation has been observed; a firing already in flight still completes.
// Cancel is idempotent and safe to call from any goroutine.
func (h *TimerHandle) Cancel() {
	if h.cancelled.Swap(true) {
		return
	}
	h.owner.timers.Remove(h)
}

// Cancelled reports whether the timer has been cancelled.
func (h *TimerHandle) Cancelled() bool {
	return h.cancelled.Load()
}

// timerWheel keeps a lane's pending timers ordered by due time. Cancelled
// entries are dropped lazily when they come due.
type timerWheel struct {
	mu   sync.Mutex
	heap timerHeap
}

func newTimerWheel() *timerWheel {
	return &timerWheel{}
}

// add registers the given timer with the wheel.
func (w *timerWheel) add(h *TimerHandle) {
	w.mu.Lock()
	heap.Push(&w.heap, h)
	w.mu.Unlock()
}

// advance pops every timer due at the given instant and enqueues its callback
// as a job on the owning actor. Periodic timers are immediately rescheduled at
// due+period, measured from the previous due time rather than from now, so
// repeated firings do not accumulate drift. Returns the number of fired
// timers.
func (w *timerWheel) advance(now time.Time) int {
	fired := 0
	for {
		w.mu.Lock()
		if w.heap.Len() == 0 || w.heap[0].due.After(now) {
			w.mu.Unlock()
			return fired
		}
		h := heap.Pop(&w.heap).(*TimerHandle)
		if h.period > 0 && !h.cancelled.Load() {
			h.due = h.due.Add(h.period)
			heap.Push(&w.heap, h)
		}
		w.mu.Unlock()

		if h.cancelled.Load() {
			h.owner.timers.Remove(h)
			continue
		}
		if h.period == 0 {
			h.owner.timers.Remove(h)
		}
		h.fire()
		fired++
	}
}

// fire enqueues the timer's callback on the owning actor. The cancelled flag
// is re-checked when the job actually runs, so a cancellation racing with the
// enqueue still suppresses the callback.
func (h *TimerHandle) fire() {
	h.owner.enqueue(func() {
		if h.cancelled.Load() {
			return
		}
		h.fn()
	})
	h.owner.recordTimerFired()
}

// timerHeap is a min-heap of timers ordered by due time.
type timerHeap []*TimerHandle

func (t timerHeap) Len() int { return len(t) }

func (t timerHeap) Less(i, j int) bool { return t[i].due.Before(t[j].due) }

func (t timerHeap) Swap(i, j int) {
	t[i], t[j] = t[j], t[i]
	t[i].index = i
	t[j].index = j
}

func (t *timerHeap) Push(x any) {
	h := x.(*TimerHandle)
	h.index = len(*t)
	*t = append(*t, h)
}

func (t *timerHeap) Pop() any {
	old := *t
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.index = -1
	*t = old[:n-1]
	return h
}
