// Package twolock provides the blocking two-lock MPMC queue.
package twolock

import (
	"sync"

	"github.com/N3ro47/lockfree/std/log"
	"github.com/N3ro47/lockfree/std/types/node"
	"github.com/N3ro47/lockfree/std/types/spinlock"
)

// Queue is an unbounded FIFO queue with a head lock and a tail lock.
//
// One Enqueue and one Dequeue proceed without contending; enqueuers are
// serialized against each other by the tail lock and dequeuers by the
// head lock. A sentinel node keeps the two ends apart: enqueuers only
// touch tail, dequeuers only touch head and the sentinel's successor.
type Queue[T any] struct {
	headMu sync.Locker
	head   *node.Node[T]
	_      [48]byte
	tailMu sync.Locker
	tail   *node.Node[T]

	nodes  *node.Pool[T]
	closed bool
}

// New creates an empty queue guarded by spin locks.
func New[T any]() *Queue[T] {
	return NewWithLocker[T](func() sync.Locker { return &spinlock.SpinLock{} })
}

// NewWithLocker creates an empty queue whose two locks come from newLock.
func NewWithLocker[T any](newLock func() sync.Locker) *Queue[T] {
	q := &Queue[T]{
		headMu: newLock(),
		tailMu: newLock(),
		nodes:  node.NewPool[T](),
	}
	sentinel := q.nodes.Sentinel()
	q.head = sentinel
	q.tail = sentinel
	return q
}

func (q *Queue[T]) String() string {
	return "twolock-queue"
}

// Enqueue appends v at the tail.
func (q *Queue[T]) Enqueue(v T) {
	n := q.nodes.Get(v)

	q.tailMu.Lock()
	if q.closed {
		q.tailMu.Unlock()
		panic("twolock: use of closed queue")
	}
	q.tail.SetNext(n)
	q.tail = n
	q.tailMu.Unlock()
}

// Dequeue removes the value at the head.
// ok is false if the queue was empty at the instant of the check.
func (q *Queue[T]) Dequeue() (val T, ok bool) {
	q.headMu.Lock()
	if q.closed {
		q.headMu.Unlock()
		panic("twolock: use of closed queue")
	}
	first := q.head
	next := first.Next()
	if next == nil {
		q.headMu.Unlock()
		return val, false
	}
	val, _ = next.Value()
	q.head = next
	q.headMu.Unlock()

	// Only dequeuers reach the old sentinel and they are serialized by
	// the head lock. Enqueuers are already past it: it had a successor.
	q.nodes.Put(first)
	return val, true
}

// Empty reports whether the queue held no value at the instant of the check.
func (q *Queue[T]) Empty() bool {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	return q.head.Next() == nil
}

// Close drops the remaining values and releases every node exactly once,
// the sentinel included. No other goroutine may use the queue during or
// after Close.
func (q *Queue[T]) Close() {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	q.tailMu.Lock()
	defer q.tailMu.Unlock()

	if q.closed {
		return
	}
	q.closed = true

	dropped := 0
	for n := q.head; n != nil; {
		next := n.Next()
		if n != q.head {
			dropped++
		}
		q.nodes.Put(n)
		n = next
	}
	q.head = nil
	q.tail = nil

	log.Trace(q, "Queue closed", "dropped", dropped)
}

// Stats returns node pool counters.
func (q *Queue[T]) Stats() node.Stats {
	return q.nodes.Stats()
}
