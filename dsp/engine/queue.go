package engine

import (
	"math/bits"
	"sync/atomic"
)

// cacheLine separates the producer and consumer indices.
const cacheLine = 64

// Queue is a bounded lock-free ring for exactly one producer goroutine and
// one consumer goroutine. Neither side ever blocks.
type Queue[T any] struct {
	buf  []T
	mask uint64

	_    [cacheLine]byte
	head atomic.Uint64 // next slot to read, owned by the consumer
	_    [cacheLine - 8]byte
	tail atomic.Uint64 // next slot to write, owned by the producer
}

// NewQueue returns a queue holding at least capacity items. The capacity is
// rounded up to a power of two.
func NewQueue[T any](capacity int) *Queue[T] {
	n := uint64(2)
	if capacity > 2 {
		n = 1 << bits.Len64(uint64(capacity-1))
	}
	return &Queue[T]{buf: make([]T, n), mask: n - 1}
}

// Cap returns the number of items the queue can hold.
func (q *Queue[T]) Cap() int { return len(q.buf) }

// Len returns a snapshot of the number of queued items.
func (q *Queue[T]) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Push appends v. It returns false when the queue is full.
func (q *Queue[T]) Push(v T) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() == uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = v
	q.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest item. ok is false when the queue is empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return v, false
	}
	v = q.buf[head&q.mask]
	var zero T
	q.buf[head&q.mask] = zero
	q.head.Store(head + 1)
	return v, true
}
