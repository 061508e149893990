package lockfree

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyDequeueIsNoop(t *testing.T) {
	q := NewQueue[int]()
	head, tail := q.head.Load(), q.tail.Load()
	require.Same(t, head, tail)

	for i := 0; i < 3; i++ {
		_, ok := q.Dequeue()
		require.False(t, ok)
		require.Same(t, head, q.head.Load())
		require.Same(t, tail, q.tail.Load())
	}
	require.True(t, q.Empty())
}

func TestSentinelAdvances(t *testing.T) {
	q := NewQueue[string]()
	first := q.head.Load()
	_, ok := first.Value()
	require.False(t, ok)

	q.Enqueue("a")
	require.Same(t, first, q.head.Load())
	require.NotSame(t, first, q.tail.Load())
	require.False(t, q.Empty())

	v, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, "a", v)

	// the node holding "a" is the new sentinel
	require.Same(t, q.head.Load(), q.tail.Load())
	require.NotSame(t, first, q.head.Load())
	require.Equal(t, int64(1), q.Stats().Hazard.Pending)
}

func TestHelpsLaggingTail(t *testing.T) {
	q := NewQueue[int]()

	// link a node without swinging tail, as an enqueuer preempted
	// between its two CASes would leave it
	last := q.tail.Load()
	require.True(t, last.CasNext(nil, q.nodes.Get(1)))
	require.Same(t, last, q.tail.Load())

	// a dequeuer sees head == tail with a successor: it must help and
	// then find the value instead of reporting empty
	v, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, 1, v)

	// an enqueuer helps the same way
	last = q.tail.Load()
	require.True(t, last.CasNext(nil, q.nodes.Get(2)))
	q.Enqueue(3)
	require.Equal(t, []int{2, 3}, drain(q))
}

func TestCloseReleasesEveryNode(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 1000; i++ {
		q.Enqueue(i)
	}
	for i := 0; i < 600; i++ {
		_, ok := q.Dequeue()
		require.True(t, ok)
	}

	q.Close()
	st := q.Stats()
	require.Equal(t, int64(1001), st.Nodes.Acquired)
	require.Equal(t, st.Nodes.Acquired, st.Nodes.Released)
	require.Equal(t, int64(0), st.Hazard.Pending)

	// closing twice releases nothing twice
	q.Close()
	require.Equal(t, st.Nodes.Released, q.Stats().Nodes.Released)

	require.PanicsWithValue(t, "lockfree: use of closed queue", func() { q.Enqueue(1) })
	require.PanicsWithValue(t, "lockfree: use of closed queue", func() { q.Dequeue() })
}

func TestPerProducerOrder(t *testing.T) {
	const producers = 8
	const perProducer = 5000
	const consumers = 4

	type item struct{ producer, seq int }
	q := NewQueue[item]()

	var prodWG, consWG sync.WaitGroup
	var done atomic.Bool
	results := make([][]item, consumers)

	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func(c int) {
			defer consWG.Done()
			for {
				if it, ok := q.Dequeue(); ok {
					results[c] = append(results[c], it)
				} else if done.Load() && q.Empty() {
					return
				}
			}
		}(c)
	}
	for p := 0; p < producers; p++ {
		prodWG.Add(1)
		go func(p int) {
			defer prodWG.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(item{p, i})
			}
		}(p)
	}
	prodWG.Wait()
	done.Store(true)
	consWG.Wait()

	seen := make([][]bool, producers)
	for p := range seen {
		seen[p] = make([]bool, perProducer)
	}
	total := 0
	for c := 0; c < consumers; c++ {
		// each consumer observes every producer's items in order
		last := make([]int, producers)
		for p := range last {
			last[p] = -1
		}
		for _, it := range results[c] {
			require.Greater(t, it.seq, last[it.producer])
			last[it.producer] = it.seq
			require.False(t, seen[it.producer][it.seq], "duplicate %v", it)
			seen[it.producer][it.seq] = true
			total++
		}
	}
	require.Equal(t, producers*perProducer, total)

	q.Close()
	st := q.Stats()
	require.Equal(t, st.Nodes.Acquired, st.Nodes.Released)
}

func drain(q *Queue[int]) []int {
	out := []int{}
	for {
		v, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func BenchmarkEnqueueDequeue(b *testing.B) {
	q := NewQueue[int]()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			q.Enqueue(i)
			q.Dequeue()
			i++
		}
	})
}
