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
	"sync"
	"time"

	"github.com/castorflow/scheduler/future"
	"github.com/castorflow/scheduler/log"
)

// Context is the job-submission surface available to an actor from within its
// own hooks and jobs. Calling it from outside the actor's execution context
// breaks the single-actor-at-a-time guarantee and is not supported.
type Context struct {
	ref *ActorRef
}

// Name returns the actor's name.
func (c *Context) Name() string {
	return c.ref.Name()
}

// Logger returns the scheduler's logger.
func (c *Context) Logger() log.Logger {
	return c.ref.logger
}

// Self returns the handle of the actor this context belongs to.
func (c *Context) Self() *ActorRef {
	return c.ref
}

// Scheduler returns the scheduler running this actor.
func (c *Context) Scheduler() *Scheduler {
	return c.ref.scheduler
}

// Run appends the given job to the tail of the actor's job queue. The job is
// never executed inline during the current job, preserving program-order
// semantics.
func (c *Context) Run(fn func()) {
	c.ref.enqueue(fn)
}

// RunUntilDone re-submits the given job to the actor until it returns true.
// Each re-submission obeys the fairness batch bound, so a busy loop expressed
// this way cannot monopolize a worker.
func (c *Context) RunUntilDone(fn func() bool) {
	var step func()
	step = func() {
		if !fn() {
			c.ref.enqueue(step)
		}
	}
	c.ref.enqueue(step)
}

// RunDelayed registers a one-shot timer that enqueues the given job on this
// actor once the delay has elapsed on the scheduler's clock. A delay that is
// not greater than zero fails the actor.
func (c *Context) RunDelayed(delay time.Duration, fn func()) *TimerHandle {
	if delay <= 0 {
		panic(ErrInvalidInterval)
	}
	return c.ref.scheduleTimer(fn, delay, 0)
}

// RunAtFixedRate registers a periodic timer firing every period until
// cancelled, measured from the initial due time so firings do not drift. A
// period that is not greater than zero fails the actor.
func (c *Context) RunAtFixedRate(period time.Duration, fn func()) *TimerHandle {
	if period <= 0 {
		panic(ErrInvalidInterval)
	}
	return c.ref.scheduleTimer(fn, period, period)
}

// RunOnCompletion registers a continuation for the given future. When the
// future resolves, by any goroutine, the continuation is enqueued as a new
// job on the calling actor rather than invoked inline; a future that is
// already resolved enqueues the job immediately.
func RunOnCompletion[T any](ctx *Context, f *future.Future[T], fn func(T, error)) {
	ref := ctx.ref
	f.OnCompleted(func(value T, err error) {
		ref.enqueue(func() {
			fn(value, err)
		})
	})
}

// RunOnAllCompleted registers a combined continuation that is enqueued on the
// calling actor exactly once, after every given future has resolved. The
// continuation receives the first observed error, or nil when all futures
// succeeded.
func RunOnAllCompleted[T any](ctx *Context, futures []*future.Future[T], fn func(error)) {
	ref := ctx.ref
	if len(futures) == 0 {
		ref.enqueue(func() { fn(nil) })
		return
	}

	var (
		mu        sync.Mutex
		firstErr  error
		remaining = len(futures)
	)
	for _, f := range futures {
		f.OnCompleted(func(_ T, err error) {
			mu.Lock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			remaining--
			last := remaining == 0
			observed := firstErr
			mu.Unlock()

			if last {
				ref.enqueue(func() { fn(observed) })
			}
		})
	}
}
