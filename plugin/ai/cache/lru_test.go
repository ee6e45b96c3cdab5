package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC)}
	c := NewLRU[string](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set("key1", "value1", 0)
		val, ok := c.Get("key1")
		assert.True(t, ok)
		assert.Equal(t, "value1", val)
	})

	t.Run("GetMissing", func(t *testing.T) {
		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Empty(t, val)
	})

	t.Run("Overwrite", func(t *testing.T) {
		c.Set("key2", "original", 0)
		c.Set("key2", "updated", 0)
		val, ok := c.Get("key2")
		require.True(t, ok)
		assert.Equal(t, "updated", val)
	})
}

func TestLRU_Expiration(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Set("short", "v", time.Second)
	c.Set("long", "v", 0)

	_, ok := c.Get("short")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Stats().Size)
}

func TestLRU_Eviction(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)
	c.Set("c", "3", 0)

	// Touch "a" so "b" becomes the oldest.
	_, _ = c.Get("a")
	c.Set("d", "4", 0)

	assert.Equal(t, 3, c.Stats().Size)
	_, ok := c.Get("b")
	assert.False(t, ok)
	for _, key := range []string{"a", "c", "d"} {
		_, ok := c.Get(key)
		assert.True(t, ok, key)
	}
}

func TestLRU_Stats(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)
	c.Set("k", "v", 0)
	_, _ = c.Get("k")
	_, _ = c.Get("k")
	_, _ = c.Get("nope")

	assert.Equal(t, Stats{Size: 1, Hits: 2, Misses: 1}, c.Stats())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](50, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", (worker*j)%80)
				c.Set(key, j, 0)
				_, _ = c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Stats().Size, 50)
}
