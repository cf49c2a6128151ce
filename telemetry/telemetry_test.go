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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew(t *testing.T) {
	t.Run("With default provider", func(t *testing.T) {
		tele := New()
		require.NotNil(t, tele)
		assert.NotNil(t, tele.MeterProvider)
		assert.NotNil(t, tele.Meter)
		assert.NotNil(t, tele.Metrics)
	})
	t.Run("With custom provider", func(t *testing.T) {
		provider := noop.NewMeterProvider()
		tele := New(WithMeterProvider(provider))
		require.NotNil(t, tele)
		assert.Equal(t, provider, tele.MeterProvider)
		assert.NotNil(t, tele.Metrics)
	})
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	metrics.ActorRegistered(ctx)
	metrics.ActorDeregistered(ctx)
	metrics.JobsExecuted(ctx, 10)
	metrics.JobFailed(ctx)
	metrics.TimerFired(ctx)
}

func TestNilMetrics(t *testing.T) {
	// a nil receiver records nothing and never panics
	var metrics *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.ActorRegistered(ctx)
		metrics.ActorDeregistered(ctx)
		metrics.JobsExecuted(ctx, 1)
		metrics.JobFailed(ctx)
		metrics.TimerFired(ctx)
	})
}
