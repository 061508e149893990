package node_test

import (
	"testing"

	"github.com/N3ro47/lockfree/std/types/node"
	"github.com/stretchr/testify/require"
)

func TestNodeLinks(t *testing.T) {
	pool := node.NewPool[string]()

	s := pool.Sentinel()
	_, ok := s.Value()
	require.False(t, ok)
	require.Nil(t, s.Next())

	a := pool.Get("a")
	v, ok := a.Value()
	require.True(t, ok)
	require.Equal(t, "a", v)

	require.True(t, s.CasNext(nil, a))
	require.False(t, s.CasNext(nil, a)) // set at most once
	require.Same(t, a, s.Next())

	b := pool.Get("b")
	a.SetNext(b)
	require.Same(t, b, a.Next())
}

func TestPoolStats(t *testing.T) {
	pool := node.NewPool[int]()

	n1 := pool.Get(1)
	n2 := pool.Sentinel()
	st := pool.Stats()
	require.Equal(t, int64(2), st.Acquired)
	require.Equal(t, int64(0), st.Released)
	require.Equal(t, int64(2), st.InUse())
	require.GreaterOrEqual(t, st.Allocated, int64(1))

	pool.Put(n1)
	pool.Put(n2)
	st = pool.Stats()
	require.Equal(t, int64(2), st.Released)
	require.Equal(t, int64(0), st.InUse())
}

func TestPoolScrubsReleased(t *testing.T) {
	pool := node.NewPool[*int]()

	x := 5
	n := pool.Get(&x)
	n.SetNext(pool.Sentinel())
	pool.Put(n)

	// a released node keeps neither its payload nor its successor
	_, ok := n.Value()
	require.False(t, ok)
	require.Nil(t, n.Next())
}

func TestPoolDoubleRelease(t *testing.T) {
	pool := node.NewPool[int]()

	n := pool.Get(1)
	pool.Put(n)
	require.PanicsWithValue(t, "node: double release", func() { pool.Put(n) })
}
