package lockfree

import (
	"context"
	"iter"
	"sync/atomic"
)

// YiQueue is a lock-free Yielding Queue.
//
// It wraps a Queue with a size counter so consumers can wait on a channel
// instead of polling. Any number of producers and consumers may use it.
// Push signals Notify when the queue goes from empty to non-empty; a
// consumer that takes a value and sees more pending passes the signal on,
// so no waiter sleeps while values are queued.
type YiQueue[T any] struct {
	Notify chan struct{}
	queue  *Queue[T]
	size   atomic.Int64
}

func NewYiQueue[T any]() *YiQueue[T] {
	return &YiQueue[T]{
		Notify: make(chan struct{}, 1),
		queue:  NewQueue[T](),
	}
}

func (yq *YiQueue[T]) signal() {
	select {
	case yq.Notify <- struct{}{}:
	default:
	}
}

func (yq *YiQueue[T]) Push(v T) {
	sizenow := yq.size.Add(1)
	yq.queue.Enqueue(v)
	if sizenow == 1 {
		yq.signal()
	}
}

// Pop takes a value without blocking.
func (yq *YiQueue[T]) Pop() (val T, ok bool) {
	for yq.size.Load() > 0 {
		val, ok = yq.queue.Dequeue()
		if !ok {
			// spin: a value has been promised, but it is
			// still being linked by the Push() call.
			continue
		}
		if yq.size.Add(-1) > 0 {
			yq.signal()
		}
		return val, true
	}

	return val, false
}

// Wait blocks until a value is available or ctx is done.
func (yq *YiQueue[T]) Wait(ctx context.Context) (val T, err error) {
	for {
		if val, ok := yq.Pop(); ok {
			return val, nil
		}
		select {
		case <-yq.Notify:
		case <-ctx.Done():
			return val, ctx.Err()
		}
	}
}

// Len is the number of values pushed and not yet popped.
// A value counts from the start of Push, before it is linked.
func (yq *YiQueue[T]) Len() int {
	return int(yq.size.Load())
}

// Iter pops values until the queue is empty.
func (yq *YiQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			val, ok := yq.Pop()
			if !ok || !yield(val) {
				return
			}
		}
	}
}

// Close releases the underlying queue. See Queue.Close.
func (yq *YiQueue[T]) Close() {
	yq.queue.Close()
}
