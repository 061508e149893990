// sync_pool is a typed sync.Pool wrapper
package sync_pool

import "sync"

// SyncPool recycles values of type T.
// Values are reset when they are returned, so an idle pooled value
// never keeps the previous payload reachable.
type SyncPool[T any] struct {
	pool  *sync.Pool
	reset func(T)
}

// New creates a pool. init builds a fresh value when the pool is empty,
// reset scrubs a value on its way back into the pool.
func New[T any](init func() T, reset func(T)) SyncPool[T] {
	return SyncPool[T]{
		pool: &sync.Pool{
			New: func() any { return init() },
		},
		reset: reset,
	}
}

// Get returns a recycled or freshly built T.
func (p SyncPool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put scrubs val and hands it back to the pool.
// The caller must not touch val afterwards.
func (p SyncPool[T]) Put(val T) {
	if p.reset != nil {
		p.reset(val)
	}
	p.pool.Put(val)
}
