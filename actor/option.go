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
	"runtime"

	"go.opentelemetry.io/otel/metric"

	"github.com/castorflow/scheduler/clock"
	"github.com/castorflow/scheduler/log"
)

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithName sets the scheduler's diagnostic name.
func WithName(name string) Option {
	return func(s *Scheduler) {
		if name != "" {
			s.name = name
		}
	}
}

// WithCPUWorkers sets the number of workers of the CPU-bound lane. Values
// below one are ignored.
func WithCPUWorkers(count int) Option {
	return func(s *Scheduler) {
		if count > 0 {
			s.cpuWorkers = count
		}
	}
}

// WithIOWorkers sets the number of workers of the I/O-bound lane. Values
// below one are ignored.
func WithIOWorkers(count int) Option {
	return func(s *Scheduler) {
		if count > 0 {
			s.ioWorkers = count
		}
	}
}

// WithClock sets the scheduler's time source. Tests substitute a controlled,
// manually advanced clock here.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMeterProvider sets the meter provider used for the scheduler's
// instruments. If none is specified, the global provider is used.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *Scheduler) {
		s.meterProvider = provider
	}
}

// submitConfig carries the per-submission settings.
type submitConfig struct {
	name    string
	lane    Lane
	handler FailureHandler
}

// SubmitOption configures a single actor submission.
type SubmitOption func(*submitConfig)

// WithActorName sets the actor's name. Names must be unique within the
// scheduler; when unset, a random name is generated.
func WithActorName(name string) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.name = name
	}
}

// WithLane assigns the actor to the given workload lane. The default is
// CPUBound.
func WithLane(lane Lane) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.lane = lane
	}
}

// WithFailureHandler installs a per-actor failure handler invoked instead of
// the default report-and-fail behavior.
func WithFailureHandler(handler FailureHandler) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.handler = handler
	}
}

func defaultCPUWorkers() int {
	return runtime.NumCPU()
}

func defaultIOWorkers() int {
	return 2 * runtime.NumCPU()
}
