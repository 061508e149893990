// Package fifo defines the contract shared by the concurrent queues,
// and helpers built only on that contract.
package fifo

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/avast/retry-go/v3"
)

// Queue is an unbounded multi-producer multi-consumer FIFO queue.
//
// Enqueue never fails. Dequeue reports false when the queue was empty at
// the instant it looked; a concurrent Enqueue may land right after.
type Queue[T any] interface {
	Enqueue(v T)
	Dequeue() (T, bool)
}

// ErrEmpty is returned by a poll attempt that found nothing.
var ErrEmpty = errors.New("fifo: queue is empty")

// PollOptions tune the backoff of Poll.
type PollOptions struct {
	// First delay after an empty attempt.
	Delay time.Duration
	// Upper bound on the delay between attempts.
	MaxDelay time.Duration
}

// DefaultPollOptions is used when Poll gets no options.
var DefaultPollOptions = PollOptions{
	Delay:    10 * time.Microsecond,
	MaxDelay: 5 * time.Millisecond,
}

// pollAttempts is large enough that only ctx ends a poll.
const pollAttempts = 1 << 31

// Poll dequeues from q, backing off exponentially between empty
// attempts, until a value arrives or ctx is done. On expiry it returns
// ctx.Err().
//
// Poll wraps the queue from the outside. Each attempt is one complete
// Dequeue, so cancellation never interrupts a CAS loop halfway.
func Poll[T any](ctx context.Context, q Queue[T], opts ...PollOptions) (val T, err error) {
	o := DefaultPollOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	err = retry.Do(
		func() error {
			v, ok := q.Dequeue()
			if !ok {
				return ErrEmpty
			}
			val = v
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(pollAttempts),
		retry.Delay(o.Delay),
		retry.MaxDelay(o.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrEmpty) }),
	)
	if err != nil {
		if ctx.Err() != nil {
			return val, ctx.Err()
		}
		return val, err
	}
	return val, nil
}

// Drain dequeues from q until it reports empty.
func Drain[T any](q Queue[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := q.Dequeue()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
