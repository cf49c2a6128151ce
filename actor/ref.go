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
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/castorflow/scheduler/future"
	"github.com/castorflow/scheduler/internal/queue"
	"github.com/castorflow/scheduler/log"
)

// jobBatchLimit is the fairness quantum: the maximum number of jobs one actor
// executes per scheduling turn. An actor with remaining jobs after a batch is
// re-enqueued at the tail of its worker's ready queue, so an actor that keeps
// submitting work to itself cannot monopolize a worker.
const jobBatchLimit = 32

// scheduling states of an actor with respect to its worker's ready queue
const (
	stateIdle int32 = iota
	stateScheduled
)

// ActorRef is the runtime handle of a submitted actor. It owns the actor's
// job queue, phase, live timers and failure handling, and is the unit workers
// schedule. At most one worker executes an ActorRef at any instant.
type ActorRef struct {
	name    string
	actor   Actor
	handler FailureHandler

	scheduler *Scheduler
	lane      *lane
	worker    *worker
	logger    log.Logger

	phase          *atomic.Int32
	sched          *atomic.Int32
	closeRequested *atomic.Bool
	pauseRequested *atomic.Bool

	// pausedActive tracks whether OnPaused has run; only ever touched on the
	// actor's execution context
	pausedActive bool

	jobs   *queue.MPSC[func()]
	timers mapset.Set[*TimerHandle]

	started *future.Future[future.Void]
	done    *future.Future[future.Void]

	ctx *Context
}

func newActorRef(name string, a Actor, s *Scheduler, handler FailureHandler) *ActorRef {
	ref := &ActorRef{
		name:           name,
		actor:          a,
		handler:        handler,
		scheduler:      s,
		logger:         s.logger,
		phase:          atomic.NewInt32(int32(Starting)),
		sched:          atomic.NewInt32(stateIdle),
		closeRequested: atomic.NewBool(false),
		pauseRequested: atomic.NewBool(false),
		jobs:           queue.NewMPSC[func()](),
		timers:         mapset.NewSet[*TimerHandle](),
		started:        future.New[future.Void](),
		done:           future.New[future.Void](),
	}
	ref.ctx = &Context{ref: ref}
	return ref
}

// Name returns the actor's name.
func (x *ActorRef) Name() string {
	return x.name
}

// Phase returns the actor's current lifecycle phase.
func (x *ActorRef) Phase() Phase {
	return Phase(x.phase.Load())
}

// Paused reports whether the actor is currently paused.
func (x *ActorRef) Paused() bool {
	return x.pauseRequested.Load()
}

// Started returns the future resolved when the actor reaches the Started
// phase, or failed when the actor fails during startup.
func (x *ActorRef) Started() *future.Future[future.Void] {
	return x.started
}

// Done returns the future resolved when the actor reaches a terminal phase;
// it fails with the actor's error when the terminal phase is Failed.
func (x *ActorRef) Done() *future.Future[future.Void] {
	return x.done
}

// Close asynchronously requests the actor to shut down and returns the Done
// future. A close requested while the actor is still starting is deferred
// until the actor reaches Started, so the full lifecycle always runs. Close
// is idempotent.
func (x *ActorRef) Close() *future.Future[future.Void] {
	if x.closeRequested.Swap(true) {
		return x.done
	}
	// shutdown hooks cannot run on a paused actor
	x.Resume()

	switch x.Phase() {
	case Starting:
		// deferred; picked up when the actor reaches Started
	case Started:
		x.enqueue(x.closeJob)
	default:
		// already closing or terminal
	}
	return x.done
}

// Pause stops scheduling the actor's jobs until Resume is called. Pending and
// newly submitted jobs accumulate. Pausing is only meaningful for a Started
// actor; other phases ignore it.
func (x *ActorRef) Pause() {
	if x.Phase() != Started || x.closeRequested.Load() {
		return
	}
	if x.pauseRequested.Swap(true) {
		return
	}
	// arm the worker so it observes the pause and runs OnPaused
	x.tryScheduleForce()
}

// Resume lifts a pause: OnResumed is enqueued behind the jobs that
// accumulated while paused, and the actor is re-armed for scheduling.
// Resuming an actor that is not paused is a no-op.
func (x *ActorRef) Resume() {
	if !x.pauseRequested.Swap(false) {
		return
	}
	x.enqueue(func() {
		if x.pausedActive {
			x.pausedActive = false
			x.actor.OnResumed(x.ctx)
		}
	})
}

// enqueue appends a job to the actor's queue and arms it for scheduling.
// Jobs submitted to a terminal actor are dropped.
func (x *ActorRef) enqueue(fn func()) {
	if x.Phase().Terminal() {
		return
	}
	x.jobs.Push(fn)
	x.trySchedule()
}

// trySchedule arms the actor on its worker's ready queue unless it is
// already armed, paused or terminal.
func (x *ActorRef) trySchedule() {
	if x.pauseRequested.Load() {
		return
	}
	x.tryScheduleForce()
}

// tryScheduleForce arms the actor regardless of the pause flag. Pause uses it
// so that the worker still picks the actor up once to run OnPaused.
func (x *ActorRef) tryScheduleForce() {
	if x.sched.CompareAndSwap(stateIdle, stateScheduled) {
		x.worker.offer(x)
	}
}

// park transitions the actor back to idle after a scheduling turn and
// re-arms it when jobs raced in between the last pop and now.
func (x *ActorRef) park() {
	x.sched.Store(stateIdle)
	if !x.jobs.IsEmpty() && !x.pauseRequested.Load() && !x.Phase().Terminal() {
		x.trySchedule()
	}
}

// execute runs up to jobBatchLimit pending jobs on the calling worker and
// reports whether the actor still has runnable jobs. Only the worker owning
// the actor's current scheduling turn may call it.
func (x *ActorRef) execute() bool {
	executed := int64(0)
	defer func() {
		if executed > 0 {
			x.scheduler.metrics().JobsExecuted(x.scheduler.mctx, executed, x.lane.attrs...)
		}
	}()

	for executed < jobBatchLimit {
		if x.Phase().Terminal() {
			x.discardJobs()
			return false
		}
		if x.pauseRequested.Load() {
			x.activatePause()
			return false
		}

		fn, ok := x.jobs.Pop()
		if !ok {
			break
		}
		executed++
		if err := runProtected(fn); err != nil {
			x.handleFailure(err)
		}
	}

	if x.Phase().Terminal() {
		x.discardJobs()
		return false
	}
	if x.jobs.IsEmpty() {
		switch x.Phase() {
		case Starting:
			x.toStarted()
		case Closing:
			x.toClosed()
		}
	}
	return !x.jobs.IsEmpty() && !x.pauseRequested.Load() && !x.Phase().Terminal()
}

// activatePause runs OnPaused once per pause request, on the actor's own
// execution context.
func (x *ActorRef) activatePause() {
	if x.pausedActive {
		return
	}
	x.pausedActive = true
	if err := runProtected(func() { x.actor.OnPaused() }); err != nil {
		x.handleFailure(err)
	}
}

// toStarted transitions Starting → Started once the startup jobs have
// drained, runs the startup hook and resolves the submission future. A close
// deferred during startup is enqueued here.
func (x *ActorRef) toStarted() {
	x.setPhase(Started)
	if err := runProtected(func() { x.actor.OnStarted(x.ctx) }); err != nil {
		x.handleFailure(err)
		if x.Phase().Terminal() {
			// the submission future already failed
			return
		}
	}
	_ = x.started.Complete(future.Void{})
	if x.closeRequested.Load() {
		x.enqueue(x.closeJob)
	}
}

// closeJob drives Started → CloseRequested → Closing on the actor's own
// execution context. Jobs enqueued by the hooks drain in the Closing phase;
// toClosed finishes the lifecycle once they have.
func (x *ActorRef) closeJob() {
	if x.Phase() != Started {
		return
	}
	x.setPhase(CloseRequested)
	x.actor.OnCloseRequested(x.ctx)
	x.setPhase(Closing)
	x.actor.OnClosing(x.ctx)
}

// toClosed transitions Closing → Closed once the shutdown jobs have drained,
// cancels live timers and resolves the Done future.
func (x *ActorRef) toClosed() {
	x.setPhase(Closed)
	x.cancelTimers()
	if err := runProtected(func() { x.actor.OnClosed(x.ctx) }); err != nil {
		x.logger.Errorf("actor=(%s) closed hook failed: %v", x.name, err)
		_ = x.done.Fail(err)
		x.deregister()
		return
	}
	_ = x.done.Complete(future.Void{})
	x.deregister()
}

// handleFailure drives the phase transition for an uncaught job failure.
// Failures never cross actor boundaries: they surface through the actor's own
// futures and hooks only.
func (x *ActorRef) handleFailure(err error) {
	x.scheduler.metrics().JobFailed(x.scheduler.mctx, x.lane.attrs...)

	switch x.Phase() {
	case Starting:
		// the error surfaces through the submission future; OnFailed is not
		// invoked for startup failures
		x.fail(err, false)
		_ = x.started.Fail(err)
	case Started, CloseRequested:
		directive := DirectiveFail
		if x.handler != nil {
			directive = x.handler(err)
		}
		if directive == DirectiveResume {
			x.logger.Warnf("actor=(%s) resumed after failure: %v", x.name, err)
			return
		}
		x.fail(err, true)
		_ = x.started.Fail(err)
	case Closing:
		x.fail(err, true)
	}
}

// fail moves the actor to the Failed phase, discards pending jobs, cancels
// timers and resolves the Done future with the error.
func (x *ActorRef) fail(err error, notify bool) {
	x.setPhase(Failed)
	x.discardJobs()
	x.cancelTimers()
	if notify {
		if hookErr := runProtected(func() { x.actor.OnFailed(err) }); hookErr != nil {
			x.logger.Errorf("actor=(%s) failed hook failed: %v", x.name, hookErr)
		}
	}
	x.logger.Errorf("actor=(%s) failed: %v", x.name, err)
	_ = x.done.Fail(err)
	x.deregister()
}

// scheduleTimer registers a timer with the actor's lane.
func (x *ActorRef) scheduleTimer(fn func(), delay, period time.Duration) *TimerHandle {
	h := newTimerHandle(x, fn, x.scheduler.clock.Now().Add(delay), period)
	x.timers.Add(h)
	x.lane.wheel.add(h)
	return h
}

// cancelTimers cancels every live timer of the actor.
func (x *ActorRef) cancelTimers() {
	x.timers.Each(func(h *TimerHandle) bool {
		h.cancelled.Store(true)
		return false
	})
	x.timers.Clear()
}

// discardJobs drains the job queue without executing anything.
func (x *ActorRef) discardJobs() {
	for {
		if _, ok := x.jobs.Pop(); !ok {
			return
		}
	}
}

func (x *ActorRef) recordTimerFired() {
	x.scheduler.metrics().TimerFired(x.scheduler.mctx, x.lane.attrs...)
}

func (x *ActorRef) setPhase(p Phase) {
	x.phase.Store(int32(p))
	x.logger.Debugf("actor=(%s) entered phase %s", x.name, p)
}

func (x *ActorRef) deregister() {
	x.scheduler.deregister(x)
}

// runProtected executes actor-owned code and converts an escaping panic into
// an error at the job-execution boundary, so unwinding never reaches the
// worker's run loop.
func runProtected(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("job panicked: %v", v)
			}
		}
	}()
	fn()
	return nil
}
