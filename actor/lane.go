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
	"fmt"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/castorflow/scheduler/clock"
	"github.com/castorflow/scheduler/internal/ticker"
)

// Lane identifies the workload class an actor is assigned to.
type Lane int

const (
	// CPUBound is the lane for compute work; jobs on it must never block.
	CPUBound Lane = iota
	// IOBound is the lane for work that may block on I/O; it is sized
	// generously enough to tolerate blocking without starving the system.
	IOBound
)

// String returns the text representation of the lane.
func (l Lane) String() string {
	switch l {
	case CPUBound:
		return "cpu-bound"
	case IOBound:
		return "io-bound"
	default:
		return "unknown"
	}
}

// timerScanInterval is how often each lane compares its pending timers
// against the clock. A controlled clock additionally wakes the scan on every
// advance.
const timerScanInterval = time.Millisecond

// lane is a named pool of workers dedicated to one workload class. Actors are
// assigned to a worker by name hash and never cross lane boundaries after
// assignment.
type lane struct {
	name      string
	scheduler *Scheduler
	workers   []*worker
	wheel     *timerWheel
	ticker    *ticker.Ticker
	clock     clock.Clock
	stopCh    chan struct{}
	wg        sync.WaitGroup
	attrs     []metric.AddOption
}

func newLane(name string, workerCount int, s *Scheduler) *lane {
	l := &lane{
		name:      name,
		scheduler: s,
		wheel:     newTimerWheel(),
		ticker:    ticker.New(timerScanInterval),
		clock:     s.clock,
		stopCh:    make(chan struct{}),
		attrs:     []metric.AddOption{metric.WithAttributes(attribute.String("lane", name))},
	}
	l.workers = make([]*worker, workerCount)
	for i := range l.workers {
		l.workers[i] = newWorker(i, l)
	}
	return l
}

// assign binds the given actor to this lane and to one of its workers. The
// worker is picked by hashing the actor name, so an actor always wakes up on
// the same ready queue.
func (l *lane) assign(ref *ActorRef) {
	ref.lane = l
	ref.worker = l.workers[xxh3.HashString(ref.name)%uint64(len(l.workers))]
}

// start spawns the lane's workers and its timer scan loop.
func (l *lane) start() {
	for _, w := range l.workers {
		l.wg.Add(1)
		go w.run()
	}
	l.ticker.Start()
	l.wg.Add(1)
	go l.scanLoop()
}

// scanLoop drives the lane's timer wheel: on every tick, and on every
// controlled-clock advance, due timers are fired against the current clock
// reading.
func (l *lane) scanLoop() {
	defer l.wg.Done()

	var wake <-chan struct{}
	if waker, ok := l.clock.(clock.Waker); ok {
		wake = waker.Wake()
	}

	for {
		select {
		case <-l.ticker.Ticks:
		case <-wake:
		case <-l.stopCh:
			return
		}
		l.wheel.advance(l.clock.Now())
	}
}

// stop terminates the lane: the scan loop exits, ready queues are disposed to
// unblock the workers, and the call waits for every goroutine bounded by the
// given context.
func (l *lane) stop(ctx context.Context) error {
	close(l.stopCh)
	l.ticker.Stop()
	for _, w := range l.workers {
		w.ready.Dispose()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("lane=(%s) workers did not stop: %w", l.name, ctx.Err())
	}
}
