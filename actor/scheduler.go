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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/castorflow/scheduler/clock"
	"github.com/castorflow/scheduler/log"
	"github.com/castorflow/scheduler/telemetry"
)

// Scheduler multiplexes many independent actors onto two fixed pools of
// worker threads, one for CPU-bound and one for I/O-bound work. Collaborators
// submit actors; the scheduler assigns each to a lane, drives its lifecycle
// and guarantees per-actor mutual exclusion and FIFO job ordering.
type Scheduler struct {
	name   string
	logger log.Logger
	clock  clock.Clock

	cpuWorkers int
	ioWorkers  int

	cpu *lane
	io  *lane

	actors  sync.Map // actor name -> *ActorRef
	started *atomic.Bool

	mu          sync.Mutex
	closing     *atomic.Bool
	closed      bool
	closeResult error

	tele          *telemetry.Telemetry
	meterProvider metric.MeterProvider
	// mctx is the instrument-recording context used by the run loops
	mctx context.Context
}

// New creates a Scheduler with the given options. Workers are spawned by
// Start, not by New.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		name:       "scheduler",
		logger:     log.DefaultLogger,
		clock:      clock.System(),
		cpuWorkers: defaultCPUWorkers(),
		ioWorkers:  defaultIOWorkers(),
		started:    atomic.NewBool(false),
		closing:    atomic.NewBool(false),
		mctx:       context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	var teleOpts []telemetry.Option
	if s.meterProvider != nil {
		teleOpts = append(teleOpts, telemetry.WithMeterProvider(s.meterProvider))
	}
	s.tele = telemetry.New(teleOpts...)
	s.cpu = newLane(CPUBound.String(), s.cpuWorkers, s)
	s.io = newLane(IOBound.String(), s.ioWorkers, s)
	return s
}

// Name returns the scheduler's diagnostic name.
func (s *Scheduler) Name() string {
	return s.name
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() clock.Clock {
	return s.clock
}

// Start spawns the worker pools and timer scan loops. Starting a started
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.closing.Load() {
		return ErrSchedulerClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.cpu.start()
	s.io.start()
	s.logger.Infof("scheduler=(%s) started: cpu-bound workers=%d io-bound workers=%d",
		s.name, s.cpuWorkers, s.ioWorkers)
	return nil
}

// Submit registers the given actor, transitions it to Starting and arms it on
// a worker of the chosen lane. The returned handle's Started future resolves
// when the actor reaches Started, or fails when the actor fails during
// startup.
func (s *Scheduler) Submit(a Actor, opts ...SubmitOption) (*ActorRef, error) {
	if !s.started.Load() {
		return nil, ErrSchedulerNotStarted
	}
	if s.closing.Load() {
		return nil, ErrSchedulerClosed
	}

	cfg := submitConfig{lane: CPUBound}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = fmt.Sprintf("actor-%s", uuid.NewString())
	}

	ref := newActorRef(cfg.name, a, s, cfg.handler)
	if _, exists := s.actors.LoadOrStore(cfg.name, ref); exists {
		return nil, fmt.Errorf("%w: %s", ErrActorAlreadyExists, cfg.name)
	}

	switch cfg.lane {
	case IOBound:
		s.io.assign(ref)
	default:
		s.cpu.assign(ref)
	}

	s.metrics().ActorRegistered(s.mctx, ref.lane.attrs...)
	s.logger.Debugf("scheduler=(%s) submitted actor=(%s) to lane=(%s)", s.name, ref.name, ref.lane.name)

	ref.enqueue(func() {
		a.OnStarting(ref.ctx)
	})
	return ref, nil
}

// Actor returns the handle of the registered actor with the given name.
func (s *Scheduler) Actor(name string) (*ActorRef, bool) {
	value, ok := s.actors.Load(name)
	if !ok {
		return nil, false
	}
	return value.(*ActorRef), true
}

// Close requests every registered actor to shut down, waits for each to reach
// a terminal phase bounded by the context deadline, then stops the worker
// pools. Actors that do not terminate in time are force-abandoned and
// reported through a *ShutdownError. Close is idempotent; a second call is a
// no-op returning the first call's result.
func (s *Scheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}
	if s.closed {
		return s.closeResult
	}
	s.closing.Store(true)

	s.logger.Infof("scheduler=(%s) closing...", s.name)

	refs := make([]*ActorRef, 0)
	s.actors.Range(func(_, value any) bool {
		refs = append(refs, value.(*ActorRef))
		return true
	})

	for _, ref := range refs {
		ref.Close()
	}

	var abandoned []string
	var failures error
	for _, ref := range refs {
		if _, err := ref.Done().Await(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				abandoned = append(abandoned, ref.Name())
				continue
			}
			failures = multierr.Append(failures, fmt.Errorf("actor=(%s): %w", ref.Name(), err))
		}
	}

	failures = multierr.Append(failures, s.cpu.stop(ctx))
	failures = multierr.Append(failures, s.io.stop(ctx))

	var result error
	switch {
	case len(abandoned) > 0:
		result = &ShutdownError{Abandoned: abandoned, Err: failures}
		s.logger.Errorf("scheduler=(%s) closed with abandoned actors: %v", s.name, abandoned)
	case failures != nil:
		result = failures
		s.logger.Errorf("scheduler=(%s) closed with failures: %v", s.name, failures)
	default:
		s.logger.Infof("scheduler=(%s) closed", s.name)
	}

	s.closed = true
	s.closeResult = result
	return result
}

// metrics returns the scheduler's instruments; valid even when instrument
// creation failed, in which case recording is a no-op.
func (s *Scheduler) metrics() *telemetry.Metrics {
	return s.tele.Metrics
}

// deregister removes a terminated actor from the registry.
func (s *Scheduler) deregister(ref *ActorRef) {
	if s.actors.CompareAndDelete(ref.name, ref) {
		s.metrics().ActorDeregistered(s.mctx, ref.lane.attrs...)
	}
}
