// Lock-free data structures
package lockfree

import (
	"sync/atomic"

	"github.com/N3ro47/lockfree/std/log"
	"github.com/N3ro47/lockfree/std/types/hazard"
	"github.com/N3ro47/lockfree/std/types/node"
)

// Hazard slots used by queue operations.
const (
	hpFirst = 0 // head in Dequeue, tail in Enqueue
	hpNext  = 1 // successor of head in Dequeue
)

// Queue is an unbounded lock-free MPMC FIFO queue (Michael & Scott).
//
// head always designates a sentinel node whose successor holds the first
// value. tail designates the last node or lags one link behind it; any
// goroutine that sees the lag advances it before going on.
//
// Nodes are recycled. A node unlinked by Dequeue is retired to a hazard
// pointer domain and goes back to the pool only once no goroutine that
// loaded it before the unlink can still dereference it.
type Queue[T any] struct {
	head atomic.Pointer[node.Node[T]]
	_    [56]byte
	tail atomic.Pointer[node.Node[T]]
	_    [56]byte

	nodes  *node.Pool[T]
	hazard *hazard.Domain[node.Node[T]]
	closed atomic.Bool
}

// Stats is a snapshot of the queue's memory accounting.
type Stats struct {
	Nodes  node.Stats
	Hazard hazard.Stats
}

// NewQueue creates an empty queue holding only a sentinel.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{nodes: node.NewPool[T]()}
	q.hazard = hazard.NewDomain(q.nodes.Put)

	sentinel := q.nodes.Sentinel()
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

func (q *Queue[T]) String() string {
	return "lockfree-queue"
}

// Enqueue appends v at the tail. It never blocks and never gives up:
// a failed CAS means another goroutine made progress.
func (q *Queue[T]) Enqueue(v T) {
	q.checkOpen()

	n := q.nodes.Get(v)
	rec := q.hazard.Acquire()
	defer q.hazard.Release(rec)

	for {
		last := rec.Protect(hpFirst, &q.tail)
		next := last.Next()
		if last != q.tail.Load() {
			continue
		}

		// tail is lagging: help it along, then retry
		if next != nil {
			q.tail.CompareAndSwap(last, next)
			continue
		}

		if last.CasNext(nil, n) {
			// best effort, someone else may already have advanced it
			q.tail.CompareAndSwap(last, n)
			return
		}
	}
}

// Dequeue removes the value at the head.
// ok is false if the queue was empty at the instant of the check.
func (q *Queue[T]) Dequeue() (val T, ok bool) {
	q.checkOpen()

	rec := q.hazard.Acquire()
	defer q.hazard.Release(rec)

	for {
		first := rec.Protect(hpFirst, &q.head)
		last := q.tail.Load()
		next := first.Next()
		rec.Set(hpNext, next)
		if first != q.head.Load() {
			continue
		}

		if first == last {
			if next == nil {
				return val, false
			}
			q.tail.CompareAndSwap(last, next)
			continue
		}

		// Read the value before the CAS. Once head moves, next is the
		// new sentinel and other consumers may retire it.
		v, _ := next.Value()
		if q.head.CompareAndSwap(first, next) {
			q.hazard.Retire(rec, first)
			return v, true
		}
	}
}

// Empty reports whether the queue held no value at the instant of the check.
func (q *Queue[T]) Empty() bool {
	q.checkOpen()

	rec := q.hazard.Acquire()
	defer q.hazard.Release(rec)

	first := rec.Protect(hpFirst, &q.head)
	return first.Next() == nil
}

// Close drops the remaining values and releases every node exactly once,
// the sentinel included. No other goroutine may use the queue during or
// after Close.
func (q *Queue[T]) Close() {
	if !q.closed.CompareAndSwap(false, true) {
		return
	}

	q.hazard.Drain()

	dropped := 0
	sentinel := q.head.Load()
	for n := sentinel; n != nil; {
		next := n.Next()
		if _, ok := n.Value(); ok && n != sentinel {
			dropped++
		}
		q.nodes.Put(n)
		n = next
	}
	q.head.Store(nil)
	q.tail.Store(nil)

	log.Trace(q, "Queue closed", "dropped", dropped, "nodes", q.nodes.Stats().Acquired)
}

// Stats returns node and reclamation counters.
func (q *Queue[T]) Stats() Stats {
	return Stats{
		Nodes:  q.nodes.Stats(),
		Hazard: q.hazard.Stats(),
	}
}

func (q *Queue[T]) checkOpen() {
	if q.closed.Load() {
		panic("lockfree: use of closed queue")
	}
}
