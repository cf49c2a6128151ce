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

// Package queue provides the lock-free queues backing each actor's job queue.
package queue

import (
	"sync"
	"sync/atomic"
)

// node is a single entry in the MPSC queue.
type node[T any] struct {
	next atomic.Pointer[node[T]]
	data T
}

// MPSC is an unbounded Multi-Producer-Single-Consumer FIFO queue.
//
// Concurrency model:
//   - Many goroutines may call Push concurrently, but exactly one goroutine
//     must call Pop and IsEmpty.
//   - Push is lock-free via an atomic tail swap; nodes are pooled so the
//     steady state allocates nothing per operation.
//
// FIFO ordering is preserved across all producers, which is what gives each
// actor its program-order job execution guarantee.
type MPSC[T any] struct {
	// separate cache lines to avoid false sharing between producers and consumer
	head   atomic.Pointer[node[T]] // consumer only
	_pad1  [64]byte
	tail   atomic.Pointer[node[T]] // producers only
	_pad2  [64]byte
	length atomic.Int64
	pool   sync.Pool
}

// NewMPSC creates an empty MPSC queue. The queue starts with a dummy node so
// producers can append by swapping the tail and linking through the previous
// node.
func NewMPSC[T any]() *MPSC[T] {
	q := &MPSC[T]{
		pool: sync.Pool{New: func() any { return new(node[T]) }},
	}
	dummy := q.pool.Get().(*node[T])
	dummy.next.Store(nil)
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push appends the given value to the queue. Never blocks; safe for
// concurrent producers.
func (q *MPSC[T]) Push(value T) {
	n := q.pool.Get().(*node[T])
	n.next.Store(nil)
	n.data = value

	prev := q.tail.Swap(n)
	prev.next.Store(n)
	q.length.Add(1)
}

// Pop removes and returns the value at the head of the queue. The second
// return value is false when the queue is empty. Single consumer only.
func (q *MPSC[T]) Pop() (T, bool) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		var zero T
		return zero, false
	}

	q.head.Store(next)
	value := next.data

	var zero T
	next.data = zero

	head.next.Store(nil)
	q.pool.Put(head)
	q.length.Add(-1)
	return value, true
}

// IsEmpty reports whether the queue currently has no entries. Single
// consumer only; under concurrent producers the answer is a snapshot.
func (q *MPSC[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Len returns a best-effort count of queued entries.
func (q *MPSC[T]) Len() int64 {
	return q.length.Load()
}
