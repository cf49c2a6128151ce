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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/castorflow/scheduler/log"
)

func TestSubmitBeforeStart(t *testing.T) {
	s := New(WithLogger(log.DiscardLogger))
	_, err := s.Submit(new(lifecycleRecorder))
	assert.ErrorIs(t, err, ErrSchedulerNotStarted)
}

func TestStartIdempotent(t *testing.T) {
	s := newTestScheduler(t)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Start(context.Background()))
}

func TestSubmitAfterClose(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.Close(context.Background()))

	_, err := s.Submit(new(lifecycleRecorder))
	assert.ErrorIs(t, err, ErrSchedulerClosed)
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerClosed)
}

func TestDuplicateActorName(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.Submit(new(lifecycleRecorder), WithActorName("singleton"))
	require.NoError(t, err)

	_, err = s.Submit(new(lifecycleRecorder), WithActorName("singleton"))
	assert.ErrorIs(t, err, ErrActorAlreadyExists)
}

func TestDefaultActorName(t *testing.T) {
	s := newTestScheduler(t)

	ref, err := s.Submit(new(lifecycleRecorder))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.Name(), "actor-"))
}

func TestActorLookup(t *testing.T) {
	s := newTestScheduler(t)

	ref, err := s.Submit(new(lifecycleRecorder), WithActorName("known"))
	require.NoError(t, err)

	found, ok := s.Actor("known")
	require.True(t, ok)
	assert.Same(t, ref, found)

	_, ok = s.Actor("unknown")
	assert.False(t, ok)
}

func TestSchedulerClose(t *testing.T) {
	t.Run("With registered actors", func(t *testing.T) {
		s := newTestScheduler(t)
		recorders := make([]*lifecycleRecorder, 3)
		for i := range recorders {
			recorders[i] = new(lifecycleRecorder)
			ref, err := s.Submit(recorders[i])
			require.NoError(t, err)
			awaitStarted(t, ref)
		}

		require.NoError(t, s.Close(context.Background()))
		for _, rec := range recorders {
			assert.Equal(t, fullLifecycle, rec.Phases())
		}
	})
	t.Run("With idempotent close", func(t *testing.T) {
		s := newTestScheduler(t)
		assert.NoError(t, s.Close(context.Background()))
		assert.NoError(t, s.Close(context.Background()))
	})
	t.Run("With unstarted scheduler", func(t *testing.T) {
		s := New(WithLogger(log.DiscardLogger))
		assert.NoError(t, s.Close(context.Background()))
	})
}

func TestCloseAggregatesActorFailures(t *testing.T) {
	s := newTestScheduler(t)
	failure := errors.New("closing boom")

	rec := new(lifecycleRecorder)
	rec.onClosing = func(*Context) { panic(failure) }

	ref, err := s.Submit(rec, WithActorName("broken-closer"))
	require.NoError(t, err)
	awaitStarted(t, ref)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = s.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "broken-closer")
}

func TestCloseAbandonsStuckActors(t *testing.T) {
	s := newTestScheduler(t)
	gate := make(chan struct{})

	rec := new(lifecycleRecorder)
	rec.onClosing = func(*Context) { <-gate }

	ref, err := s.Submit(rec, WithActorName("stuck"), WithLane(IOBound))
	require.NoError(t, err)
	awaitStarted(t, ref)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = s.Close(ctx)
	require.Error(t, err)

	var shutdownErr *ShutdownError
	require.ErrorAs(t, err, &shutdownErr)
	assert.Equal(t, []string{"stuck"}, shutdownErr.Abandoned)

	// release the actor so its worker drains before the test ends
	close(gate)
	assert.Eventually(t, func() bool {
		return ref.Phase().Terminal()
	}, time.Second, 10*time.Millisecond)
}

func TestPauseResume(t *testing.T) {
	t.Run("With jobs accumulating while paused", func(t *testing.T) {
		s := newTestScheduler(t)
		counter := atomic.NewInt32(0)

		rec := new(lifecycleRecorder)
		ref, err := s.Submit(rec)
		require.NoError(t, err)
		awaitStarted(t, ref)

		ref.Pause()
		assert.True(t, ref.Paused())
		assert.Eventually(t, func() bool {
			phases := rec.Phases()
			return len(phases) > 0 && phases[len(phases)-1] == "PAUSED"
		}, time.Second, 10*time.Millisecond)

		for i := 0; i < 3; i++ {
			ref.enqueue(func() {
				rec.record("JOB")
				counter.Inc()
			})
		}
		time.Sleep(50 * time.Millisecond)
		assert.Zero(t, counter.Load())

		ref.Resume()
		assert.False(t, ref.Paused())
		assert.Eventually(t, func() bool {
			return counter.Load() == 3
		}, time.Second, 10*time.Millisecond)

		// the accumulated jobs run before the resumed hook
		assert.Eventually(t, func() bool {
			phases := rec.Phases()
			return phases[len(phases)-1] == "RESUMED"
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t,
			[]string{"STARTING", "STARTED", "PAUSED", "JOB", "JOB", "JOB", "RESUMED"},
			rec.Phases())
	})
	t.Run("With pause outside the started phase", func(t *testing.T) {
		s := newTestScheduler(t)
		entered := make(chan struct{})
		gate := make(chan struct{})

		rec := new(lifecycleRecorder)
		rec.onStarting = func(*Context) {
			close(entered)
			<-gate
		}

		ref, err := s.Submit(rec, WithLane(IOBound))
		require.NoError(t, err)

		<-entered
		ref.Pause()
		assert.False(t, ref.Paused())
		close(gate)
		awaitStarted(t, ref)
	})
	t.Run("With resume of an unpaused actor", func(t *testing.T) {
		s := newTestScheduler(t)

		rec := new(lifecycleRecorder)
		ref, err := s.Submit(rec)
		require.NoError(t, err)
		awaitStarted(t, ref)

		ref.Resume()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, []string{"STARTING", "STARTED"}, rec.Phases())
	})
}

func TestCloseResumesPausedActor(t *testing.T) {
	s := newTestScheduler(t)

	rec := new(lifecycleRecorder)
	ref, err := s.Submit(rec)
	require.NoError(t, err)
	awaitStarted(t, ref)

	ref.Pause()
	assert.Eventually(t, func() bool {
		phases := rec.Phases()
		return len(phases) > 0 && phases[len(phases)-1] == "PAUSED"
	}, time.Second, 10*time.Millisecond)

	ref.Close()
	require.NoError(t, awaitDone(t, ref))
	assert.Equal(t,
		[]string{"STARTING", "STARTED", "PAUSED", "RESUMED", "CLOSE_REQUESTED", "CLOSING", "CLOSED"},
		rec.Phases())
}
