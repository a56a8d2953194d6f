package exprcond

import (
	"testing"

	"github.com/expr-lang/expr"
	"github.com/stretchr/testify/require"
)

func TestCache_LRUEviction(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	p1, err := expr.Compile("1")
	require.NoError(t, err)
	p2, err := expr.Compile("2")
	require.NoError(t, err)
	p3, err := expr.Compile("3")
	require.NoError(t, err)

	c.Put("a", p1)
	c.Put("b", p2)

	// Touch "a" so "b" becomes least recently used
	got, ok := c.Get("a")
	require.True(t, ok)
	require.Same(t, p1, got)

	c.Put("c", p3)
	require.Equal(t, 2, c.Len())
	_, ok = c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)

	size, hits, misses, ratio := c.Stats()
	require.Equal(t, 2, size)
	require.EqualValues(t, 2, hits)
	require.EqualValues(t, 1, misses)
	require.InDelta(t, 2.0/3.0, ratio, 1e-9)
	require.Contains(t, c.String(), "size=2")
}

func TestCache_ResizeAndReplace(t *testing.T) {
	t.Parallel()

	c := NewCache(0)
	require.Equal(t, DefaultCacheSize, c.maxSize)

	p1, err := expr.Compile("1")
	require.NoError(t, err)
	p2, err := expr.Compile("2")
	require.NoError(t, err)

	c.Put("a", p1)
	c.Put("a", p2)
	require.Equal(t, 1, c.Len())
	got, _ := c.Get("a")
	require.Same(t, p2, got)

	c.Put("b", p1)
	c.Resize(0)
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	require.True(t, ok)
}
