package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheBasicGetSet(t *testing.T) {
	c := New[string, string](10, NewLRUPolicy[string](), Metrics{})

	_, ok := c.TryGet("k")
	require.False(t, ok)

	c.Set("k", "v")
	v, ok := c.TryGet("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestCacheSetThenGetReturnsStoredValue(t *testing.T) {
	c := New[int, int](4, NewLRUPolicy[int](), Metrics{})
	for i := 0; i < 4; i++ {
		c.Set(i, i*10)
	}
	for i := 0; i < 4; i++ {
		v, ok := c.TryGet(i)
		require.True(t, ok)
		require.Equal(t, i*10, v)
	}
}

func TestCacheLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](2, NewLRUPolicy[int](), Metrics{})
	c.Set(1, "a")
	c.Set(2, "b")
	// touch 1 so 2 becomes the least-recently-used
	_, _ = c.TryGet(1)
	c.Set(3, "c")

	_, ok := c.TryGet(2)
	require.False(t, ok, "2 should have been evicted")
	_, ok = c.TryGet(1)
	require.True(t, ok)
	_, ok = c.TryGet(3)
	require.True(t, ok)
}

func TestCacheClear(t *testing.T) {
	c := New[int, string](10, NewLRUPolicy[int](), Metrics{})
	c.Set(1, "a")
	c.Clear()
	require.Equal(t, 0, c.Len())
	_, ok := c.TryGet(1)
	require.False(t, ok)
}

func TestGDFSEvictsLowestPriority(t *testing.T) {
	cost := map[int]float64{1: 1, 2: 100}
	policy := NewGDFSPolicy[int](func(k int) float64 { return cost[k] }, nil)
	c := New[int, string](2, policy, Metrics{})

	c.Set(1, "cheap")
	c.Set(2, "expensive")
	// Access the expensive one repeatedly to raise its priority.
	for i := 0; i < 5; i++ {
		_, _ = c.TryGet(2)
	}
	c.Set(3, "new")

	_, ok := c.TryGet(1)
	require.False(t, ok, "low-cost, low-frequency entry should be evicted first")
	_, ok = c.TryGet(2)
	require.True(t, ok)
}
