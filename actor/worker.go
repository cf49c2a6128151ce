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
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/castorflow/scheduler/log"
)

// readyQueueCapacity bounds the number of distinct actors (not jobs) that can
// be armed on one worker at a time; job queues themselves are unbounded.
const readyQueueCapacity = 1 << 12

// worker owns a ready queue of actors armed for execution and drives the run
// loop. A worker never terminates because of an actor-level failure; failures
// are handled at the job-execution boundary and the loop continues.
type worker struct {
	id     int
	lane   *lane
	ready  *gods.RingBuffer
	logger log.Logger
}

func newWorker(id int, l *lane) *worker {
	return &worker{
		id:     id,
		lane:   l,
		ready:  gods.NewRingBuffer(readyQueueCapacity),
		logger: l.scheduler.logger,
	}
}

// offer arms the given actor on this worker's ready queue. During shutdown
// the queue is disposed and late wake-ups are dropped.
func (w *worker) offer(ref *ActorRef) {
	if err := w.ready.Put(ref); err != nil {
		w.logger.Debugf("worker=(%s/%d) dropped wake-up for actor=(%s): %v",
			w.lane.name, w.id, ref.Name(), err)
	}
}

// run is the worker's main loop: pick the next armed actor, execute one batch
// of its jobs, and either re-arm it at the tail of the ready queue or park
// it. The loop exits when the ready queue is disposed.
func (w *worker) run() {
	defer w.lane.wg.Done()
	for {
		item, err := w.ready.Get()
		if err != nil {
			// disposed; shutting down
			return
		}
		ref := item.(*ActorRef)
		if more := ref.execute(); more {
			w.offer(ref)
			continue
		}
		ref.park()
	}
}
