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

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

const (
	actorsGaugeName  = "scheduler.actors.registered"
	jobsExecutedName = "scheduler.jobs.executed"
	jobFailuresName  = "scheduler.jobs.failures"
	timersFiredName  = "scheduler.timers.fired"
)

// Metrics groups the instruments recorded by the scheduler. A nil *Metrics is
// valid and records nothing, so instrument-creation failures degrade to
// no-ops instead of crashing a worker.
type Metrics struct {
	actorsRegistered metric.Int64UpDownCounter
	jobsExecuted     metric.Int64Counter
	jobFailures      metric.Int64Counter
	timersFired      metric.Int64Counter
}

// NewMetrics creates an instance of Metrics
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	metrics := new(Metrics)
	var err error

	if metrics.actorsRegistered, err = meter.Int64UpDownCounter(
		actorsGaugeName,
		metric.WithDescription("The number of actors currently registered with the scheduler"),
	); err != nil {
		return nil, fmt.Errorf("failed to create registered actors instrument: %w", err)
	}

	if metrics.jobsExecuted, err = meter.Int64Counter(
		jobsExecutedName,
		metric.WithDescription("The total number of jobs executed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create executed jobs instrument: %w", err)
	}

	if metrics.jobFailures, err = meter.Int64Counter(
		jobFailuresName,
		metric.WithDescription("The total number of uncaught job failures"),
	); err != nil {
		return nil, fmt.Errorf("failed to create job failures instrument: %w", err)
	}

	if metrics.timersFired, err = meter.Int64Counter(
		timersFiredName,
		metric.WithDescription("The total number of timers fired"),
	); err != nil {
		return nil, fmt.Errorf("failed to create timers fired instrument: %w", err)
	}

	return metrics, nil
}

// ActorRegistered records one more registered actor.
func (m *Metrics) ActorRegistered(ctx context.Context, opts ...metric.AddOption) {
	if m == nil {
		return
	}
	m.actorsRegistered.Add(ctx, 1, opts...)
}

// ActorDeregistered records one less registered actor.
func (m *Metrics) ActorDeregistered(ctx context.Context, opts ...metric.AddOption) {
	if m == nil {
		return
	}
	m.actorsRegistered.Add(ctx, -1, opts...)
}

// JobsExecuted records n executed jobs.
func (m *Metrics) JobsExecuted(ctx context.Context, n int64, opts ...metric.AddOption) {
	if m == nil {
		return
	}
	m.jobsExecuted.Add(ctx, n, opts...)
}

// JobFailed records one uncaught job failure.
func (m *Metrics) JobFailed(ctx context.Context, opts ...metric.AddOption) {
	if m == nil {
		return
	}
	m.jobFailures.Add(ctx, 1, opts...)
}

// TimerFired records one fired timer.
func (m *Metrics) TimerFired(ctx context.Context, opts ...metric.AddOption) {
	if m == nil {
		return
	}
	m.timersFired.Add(ctx, 1, opts...)
}
