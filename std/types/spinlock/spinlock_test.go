package spinlock_test

import (
	"sync"
	"testing"

	"github.com/N3ro47/lockfree/std/types/spinlock"
	"github.com/stretchr/testify/require"
)

var _ sync.Locker = (*spinlock.SpinLock)(nil)

func TestTryLock(t *testing.T) {
	var l spinlock.SpinLock

	require.True(t, l.TryLock())
	require.False(t, l.TryLock())
	l.Unlock()
	require.True(t, l.TryLock())
	l.Unlock()
}

func TestUnlockUnlocked(t *testing.T) {
	var l spinlock.SpinLock
	require.PanicsWithValue(t, "spinlock: unlock of unlocked lock", l.Unlock)
}

func TestMutualExclusion(t *testing.T) {
	var l spinlock.SpinLock
	var wg sync.WaitGroup

	n := 1000
	m := 16
	counter := 0 // plain int: the race detector flags any unguarded access

	for i := 0; i < m; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < n; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, n*m, counter)
}

func BenchmarkSpinLock(b *testing.B) {
	var l spinlock.SpinLock
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			l.Unlock()
		}
	})
}

func BenchmarkMutex(b *testing.B) {
	var l sync.Mutex
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			l.Unlock()
		}
	})
}
