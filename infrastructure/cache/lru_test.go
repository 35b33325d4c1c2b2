package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaceLRU_SetGet(t *testing.T) {
	c := NewNamespaceLRU[[]byte](2)

	c.Set("IMG:url", "a", []byte("one"))
	got, ok := c.Get("IMG:url", "a")

	assert.True(t, ok)
	assert.Equal(t, []byte("one"), got)

	_, ok = c.Get("IMG:wifi", "a")
	assert.False(t, ok, "namespaces are isolated")
}

func TestNamespaceLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	// Arrange
	c := NewNamespaceLRU[int](2)
	c.Set("ns", "a", 1)
	c.Set("ns", "b", 2)

	// Act: touch a so b becomes the eviction candidate
	_, _ = c.Get("ns", "a")
	c.Set("ns", "c", 3)

	// Assert
	_, okA := c.Get("ns", "a")
	_, okB := c.Get("ns", "b")
	_, okC := c.Get("ns", "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, c.Size())
}

func TestNamespaceLRU_UpdateExisting(t *testing.T) {
	c := NewNamespaceLRU[string](2)
	c.Set("ns", "k", "v1")
	c.Set("ns", "k", "v2")

	got, ok := c.Get("ns", "k")

	assert.True(t, ok)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 1, c.Size())
}

func TestNamespaceLRU_Invalidate(t *testing.T) {
	c := NewNamespaceLRU[int](10)
	c.Set("a", "1", 1)
	c.Set("a", "2", 2)
	c.Set("b", "1", 3)

	c.Invalidate("a", "1")
	_, ok := c.Get("a", "1")
	assert.False(t, ok)

	c.InvalidateNamespace("a")
	assert.Equal(t, 1, c.Size())
	_, ok = c.Get("b", "1")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestNamespaceLRU_Disabled(t *testing.T) {
	c := NewNamespaceLRU[int](0)

	c.Set("ns", "k", 1)

	_, ok := c.Get("ns", "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestNamespaceLRU_Stats(t *testing.T) {
	c := NewNamespaceLRU[int](4)
	c.Set("ns", "k", 1)

	_, _ = c.Get("ns", "k")
	_, _ = c.Get("ns", "missing")

	assert.Equal(t, Stats{Size: 1, Hits: 1, Misses: 1}, c.Stats())
}

func TestNamespaceLRU_ConcurrentAccess(t *testing.T) {
	c := NewNamespaceLRU[int](16)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d-%d", n, j%20)
				c.Set("ns", key, j)
				_, _ = c.Get("ns", key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 16)
}
