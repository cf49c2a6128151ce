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

// Package actor implements the cooperative, phase-driven concurrency runtime
// that multiplexes many independent actors onto a small fixed pool of worker
// threads, with single-assignment futures for cross-actor completion
// notification and cancellable one-shot and periodic timers.
//
// Every actor executes with single-threaded semantics: at most one worker
// runs jobs for a given actor at any instant, and jobs of one actor run in
// FIFO submission order. Actors never share mutable state directly; all
// cross-actor interaction goes through the scheduler's submission API or
// futures.
package actor

// Actor is the contract lifecycle-managed units of work implement. Each hook
// is invoked on the actor's own execution context, in phase order. Embed
// Behavior to implement only the hooks you need.
type Actor interface {
	// OnStarting is invoked when the actor enters the Starting phase. Jobs
	// enqueued here run before the actor reaches Started.
	OnStarting(ctx *Context)

	// OnStarted is invoked once the startup jobs have drained and the actor
	// enters the Started phase. Periodic-maintenance actors typically
	// register their timers here.
	OnStarted(ctx *Context)

	// OnCloseRequested is invoked when a close request is dequeued by the
	// actor, before any shutdown work begins.
	OnCloseRequested(ctx *Context)

	// OnClosing is invoked when the actor enters the Closing phase. Jobs
	// enqueued here run before the actor reaches Closed.
	OnClosing(ctx *Context)

	// OnClosed is invoked once the actor has reached the Closed phase. Live
	// timers have already been cancelled at this point.
	OnClosed(ctx *Context)

	// OnFailed is invoked when an uncaught failure moves the actor to the
	// Failed phase. It is not invoked for Starting-phase failures; those
	// surface through the submission future instead.
	OnFailed(err error)

	// OnPaused is invoked when a pause request is observed. Jobs submitted
	// while paused accumulate and run after resumption.
	OnPaused()

	// OnResumed is invoked when a paused actor resumes, behind the jobs that
	// accumulated while the actor was paused.
	OnResumed(ctx *Context)
}

// Behavior is a no-op Actor implementation meant to be embedded so that
// implementers only override the hooks they care about.
type Behavior struct{}

// enforce compilation error
var _ Actor = (*Behavior)(nil)

// OnStarting implements Actor.
func (*Behavior) OnStarting(*Context) {}

// OnStarted implements Actor.
func (*Behavior) OnStarted(*Context) {}

// OnCloseRequested implements Actor.
func (*Behavior) OnCloseRequested(*Context) {}

// OnClosing implements Actor.
func (*Behavior) OnClosing(*Context) {}

// OnClosed implements Actor.
func (*Behavior) OnClosed(*Context) {}

// OnFailed implements Actor.
func (*Behavior) OnFailed(error) {}

// OnPaused implements Actor.
func (*Behavior) OnPaused() {}

// OnResumed implements Actor.
func (*Behavior) OnResumed(*Context) {}

// Directive tells the runtime how to proceed after an uncaught job failure.
type Directive int

const (
	// DirectiveFail moves the actor to the Failed phase. This is the
	// default.
	DirectiveFail Directive = iota
	// DirectiveResume keeps the actor in its current phase; the failing job
	// is discarded and queued jobs keep running.
	DirectiveResume
)

// FailureHandler lets an actor intercept its own uncaught failures instead
// of the default report-and-fail behavior. The handler runs on the actor's
// execution context.
type FailureHandler func(err error) Directive
