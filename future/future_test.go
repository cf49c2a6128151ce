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

package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	t.Run("With pending future", func(t *testing.T) {
		f := New[int]()
		assert.False(t, f.IsCompleted())

		_, err := f.Result()
		assert.ErrorIs(t, err, ErrNotCompleted)

		require.NoError(t, f.Complete(42))
		assert.True(t, f.IsCompleted())

		value, err := f.Result()
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})
	t.Run("With already resolved future", func(t *testing.T) {
		f := New[int]()
		require.NoError(t, f.Complete(42))

		assert.ErrorIs(t, f.Complete(100), ErrAlreadyCompleted)
		assert.ErrorIs(t, f.Fail(errors.New("late")), ErrAlreadyCompleted)

		// the first resolution wins
		value, err := f.Result()
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})
}

func TestFail(t *testing.T) {
	f := New[string]()
	failure := errors.New("boom")
	require.NoError(t, f.Fail(failure))
	assert.True(t, f.IsCompleted())

	value, err := f.Result()
	assert.ErrorIs(t, err, failure)
	assert.Empty(t, value)

	assert.ErrorIs(t, f.Complete("late"), ErrAlreadyCompleted)
	_, err = f.Result()
	assert.ErrorIs(t, err, failure)
}

func TestConstructors(t *testing.T) {
	t.Run("With Completed", func(t *testing.T) {
		f := Completed("done")
		require.True(t, f.IsCompleted())
		value, err := f.Result()
		require.NoError(t, err)
		assert.Equal(t, "done", value)
	})
	t.Run("With Failed", func(t *testing.T) {
		failure := errors.New("boom")
		f := Failed[string](failure)
		require.True(t, f.IsCompleted())
		_, err := f.Result()
		assert.ErrorIs(t, err, failure)
	})
}

func TestAwait(t *testing.T) {
	t.Run("With resolution", func(t *testing.T) {
		f := New[int]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			_ = f.Complete(7)
		}()

		value, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, value)
	})
	t.Run("With canceled context", func(t *testing.T) {
		f := New[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := f.Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, f.IsCompleted())
	})
}

func TestDone(t *testing.T) {
	f := New[Void]()
	select {
	case <-f.Done():
		t.Fatal("done channel closed before resolution")
	default:
	}

	require.NoError(t, f.Complete(Void{}))
	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after resolution")
	}
}

func TestOnCompleted(t *testing.T) {
	t.Run("With listeners registered before resolution", func(t *testing.T) {
		f := New[int]()
		var order []int
		f.OnCompleted(func(value int, err error) {
			require.NoError(t, err)
			order = append(order, 1)
		})
		f.OnCompleted(func(value int, err error) {
			require.NoError(t, err)
			order = append(order, 2)
		})

		require.NoError(t, f.Complete(42))
		assert.Equal(t, []int{1, 2}, order)
	})
	t.Run("With listener registered after resolution", func(t *testing.T) {
		failure := errors.New("boom")
		f := Failed[int](failure)

		invoked := false
		f.OnCompleted(func(_ int, err error) {
			invoked = true
			assert.ErrorIs(t, err, failure)
		})
		assert.True(t, invoked)
	})
	t.Run("With listeners invoked exactly once each", func(t *testing.T) {
		f := New[int]()
		var (
			mu    sync.Mutex
			count int
		)
		f.OnCompleted(func(int, error) {
			mu.Lock()
			count++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_ = f.Complete(n)
			}(i)
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, count)
	})
}

func TestConcurrentResolution(t *testing.T) {
	f := New[int]()
	var (
		wg        sync.WaitGroup
		successes sync.Map
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := f.Complete(n); err == nil {
				successes.Store(n, true)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	successes.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
	assert.True(t, f.IsCompleted())
}
