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

// Package clock abstracts the time source used by the scheduler so that timer
// behavior can be tested deterministically against a manually advanced clock.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source consumed by the scheduler's timer subsystem.
// Implementations must be safe for concurrent use.
type Clock interface {
	// Now returns the current time as seen by this clock.
	Now() time.Time
}

// Waker is implemented by clocks whose time moves in discrete, externally
// driven steps. The scheduler subscribes to Wake to re-scan timers as soon as
// the clock jumps instead of waiting for the next periodic scan.
type Waker interface {
	// Wake returns a channel that receives a signal whenever the clock's
	// current time changes.
	Wake() <-chan struct{}
}

// systemClock reads the wall clock.
type systemClock struct{}

// enforce compilation error
var _ Clock = (*systemClock)(nil)

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}

// Now returns the current wall-clock time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// Controlled is a Clock whose time only moves when the test advances it.
// The zero value is not usable; create instances with NewControlled.
type Controlled struct {
	mu   sync.Mutex
	now  time.Time
	wake chan struct{}
}

// enforce compilation error
var _ Clock = (*Controlled)(nil)
var _ Waker = (*Controlled)(nil)

// NewControlled creates a Controlled clock starting at the given time.
func NewControlled(start time.Time) *Controlled {
	return &Controlled{
		now:  start,
		wake: make(chan struct{}, 1),
	}
}

// Now returns the controlled clock's current time.
func (c *Controlled) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by the given duration and signals
// subscribers. Negative durations are ignored.
func (c *Controlled) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	c.signal()
}

// SetTime moves the clock to the given instant and signals subscribers.
// Moving backwards is allowed and only affects subsequent Now calls.
func (c *Controlled) SetTime(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
	c.signal()
}

// Wake returns the channel signaled on every Advance or SetTime.
func (c *Controlled) Wake() <-chan struct{} {
	return c.wake
}

// signal delivers a non-blocking wake-up; a pending signal is enough for
// subscribers that re-read Now on every scan.
func (c *Controlled) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
