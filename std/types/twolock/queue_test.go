package twolock_test

import (
	"sync"
	"testing"

	"github.com/N3ro47/lockfree/std/types/twolock"
	"github.com/stretchr/testify/require"
)

func TestFifo(t *testing.T) {
	q := twolock.New[int]()
	require.True(t, q.Empty())

	for i := 0; i < 10; i++ {
		q.Enqueue(i)
	}
	require.False(t, q.Empty())
	for i := 0; i < 10; i++ {
		v, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := q.Dequeue()
	require.False(t, ok)
	require.True(t, q.Empty())
}

func TestNodesRecycled(t *testing.T) {
	q := twolock.New[int]()
	for i := 0; i < 100; i++ {
		q.Enqueue(i)
	}
	for i := 0; i < 40; i++ {
		_, ok := q.Dequeue()
		require.True(t, ok)
	}

	st := q.Stats()
	require.Equal(t, int64(101), st.Acquired)
	require.Equal(t, int64(40), st.Released)
	require.Equal(t, int64(61), st.InUse())

	q.Close()
	st = q.Stats()
	require.Equal(t, st.Acquired, st.Released)

	// second close is a no-op
	q.Close()
	require.Equal(t, st, q.Stats())

	require.PanicsWithValue(t, "twolock: use of closed queue", func() { q.Enqueue(1) })
	require.PanicsWithValue(t, "twolock: use of closed queue", func() { q.Dequeue() })
}

func TestMutexLocker(t *testing.T) {
	q := twolock.NewWithLocker[string](func() sync.Locker { return &sync.Mutex{} })
	defer q.Close()

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				q.Enqueue("x")
			}
		}()
	}
	wg.Wait()

	n := 0
	for {
		if _, ok := q.Dequeue(); !ok {
			break
		}
		n++
	}
	require.Equal(t, 4000, n)
}

func BenchmarkEnqueueDequeue(b *testing.B) {
	q := twolock.New[int]()
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
