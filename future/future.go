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

// Package future provides a single-assignment container for an eventual result
// or error, with completion listeners delivered in registration order.
package future

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrAlreadyCompleted is returned when a future is resolved a second time.
	// Double resolution is a programming error and fails loudly.
	ErrAlreadyCompleted = errors.New("future has already been completed")

	// ErrNotCompleted is returned by Result when the future is still pending.
	ErrNotCompleted = errors.New("future has not been completed")
)

// Void is the result type of futures that only signal completion.
type Void struct{}

// Future represents a value which may or may not currently be available,
// but will be available at some point, or an error if that value could not
// be made available. A Future resolves at most once.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	value     T
	err       error
	listeners []func(T, error)
}

// New creates a pending Future.
func New[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Completed creates a Future already resolved with the given value.
func Completed[T any](value T) *Future[T] {
	f := New[T]()
	_ = f.Complete(value)
	return f
}

// Failed creates a Future already resolved with the given error.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	_ = f.Fail(err)
	return f
}

// Complete resolves the future with a value. It returns ErrAlreadyCompleted
// when the future has been resolved before; the stored result is unchanged.
func (f *Future[T]) Complete(value T) error {
	return f.resolve(value, nil)
}

// Fail resolves the future with an error. It returns ErrAlreadyCompleted
// when the future has been resolved before; the stored result is unchanged.
func (f *Future[T]) Fail(err error) error {
	var zero T
	return f.resolve(zero, err)
}

// IsCompleted reports whether the future has been resolved.
func (f *Future[T]) IsCompleted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Result returns the resolved value or error without blocking. A pending
// future yields ErrNotCompleted.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.completed {
		var zero T
		return zero, ErrNotCompleted
	}
	return f.value, f.err
}

// Done returns a channel closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future is resolved or the context is canceled and
// returns either the result or an error.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnCompleted registers a listener invoked exactly once with the resolved
// value or error. Listeners registered before resolution run in registration
// order on the resolving goroutine; a listener registered after resolution
// runs immediately on the caller's goroutine. Listeners must hand work off
// rather than execute it; the actor runtime relies on this to re-enqueue
// continuations as jobs instead of running them inline.
func (f *Future[T]) OnCompleted(listener func(T, error)) {
	f.mu.Lock()
	if !f.completed {
		f.listeners = append(f.listeners, listener)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()
	listener(value, err)
}

// resolve performs the single assignment and drains the listener list.
func (f *Future[T]) resolve(value T, err error) error {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return ErrAlreadyCompleted
	}
	f.completed = true
	f.value = value
	f.err = err
	listeners := f.listeners
	f.listeners = nil
	close(f.done)
	f.mu.Unlock()

	for _, listener := range listeners {
		listener(value, err)
	}
	return nil
}
