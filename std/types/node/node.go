// Package node provides the singly linked cell shared by the queues,
// and a pool that recycles cells and catches double release.
package node

import (
	"sync/atomic"

	"github.com/N3ro47/lockfree/std/types/optional"
	"github.com/N3ro47/lockfree/std/types/sync_pool"
)

const (
	stateFree uint32 = iota
	stateLive
)

// Node is a list cell holding at most one value.
// A sentinel node holds no value.
type Node[T any] struct {
	value optional.Optional[T]
	next  atomic.Pointer[Node[T]]
	state atomic.Uint32
}

// Value returns the payload, if any.
// Safe only while the node cannot be released under the caller.
func (n *Node[T]) Value() (T, bool) {
	return n.value.Get()
}

// Next returns the successor or nil.
func (n *Node[T]) Next() *Node[T] {
	return n.next.Load()
}

// SetNext links succ after n.
func (n *Node[T]) SetNext(succ *Node[T]) {
	n.next.Store(succ)
}

// CasNext links succ after n only if the successor is still old.
func (n *Node[T]) CasNext(old, succ *Node[T]) bool {
	return n.next.CompareAndSwap(old, succ)
}

// Stats is a snapshot of pool counters.
type Stats struct {
	// Nodes built from scratch (pool misses).
	Allocated int64
	// Nodes handed out by Get or Sentinel.
	Acquired int64
	// Nodes handed back by Put.
	Released int64
}

// InUse is the number of nodes acquired and not yet released.
func (s Stats) InUse() int64 {
	return s.Acquired - s.Released
}

// Pool recycles nodes of one queue.
type Pool[T any] struct {
	pool      sync_pool.SyncPool[*Node[T]]
	allocated atomic.Int64
	acquired  atomic.Int64
	released  atomic.Int64
}

// NewPool creates an empty node pool.
func NewPool[T any]() *Pool[T] {
	p := &Pool[T]{}
	p.pool = sync_pool.New(
		func() *Node[T] {
			p.allocated.Add(1)
			return &Node[T]{}
		},
		func(n *Node[T]) {
			n.value.Unset()
			n.next.Store(nil)
		})
	return p
}

// Get returns an unlinked node holding v.
func (p *Pool[T]) Get(v T) *Node[T] {
	n := p.take()
	n.value.Set(v)
	return n
}

// Sentinel returns an unlinked node holding nothing.
func (p *Pool[T]) Sentinel() *Node[T] {
	return p.take()
}

func (p *Pool[T]) take() *Node[T] {
	n := p.pool.Get()
	if !n.state.CompareAndSwap(stateFree, stateLive) {
		panic("node: pooled node is still live")
	}
	p.acquired.Add(1)
	return n
}

// Put releases n back to the pool. Releasing the same node twice panics.
// The caller guarantees no other goroutine can still dereference n.
func (p *Pool[T]) Put(n *Node[T]) {
	if !n.state.CompareAndSwap(stateLive, stateFree) {
		panic("node: double release")
	}
	p.released.Add(1)
	p.pool.Put(n)
}

// Stats returns the current counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Allocated: p.allocated.Load(),
		Acquired:  p.acquired.Load(),
		Released:  p.released.Load(),
	}
}
