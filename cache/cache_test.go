package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(capacity int, ttl time.Duration) (*Cache, *time.Time) {
	c := New(func(o *Options) {
		o.Capacity = capacity
		o.TTL = ttl
	})
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestRoundTrip(t *testing.T) {
	c, _ := newTestCache(10, 30*time.Minute)

	c.Put("menu:pizza", "pizza listing")
	v, ok := c.Get("menu:pizza")
	require.True(t, ok)
	assert.Equal(t, "pizza listing", v)

	_, ok = c.Get("menu:unknown")
	assert.False(t, ok)
}

func TestTTLExpiryIsLazy(t *testing.T) {
	c, clock := newTestCache(10, 30*time.Minute)

	c.Put("k", "v")
	*clock = clock.Add(31 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
	// The expired entry was purged as a side effect of Get.
	assert.Equal(t, 0, c.Len())
}

func TestAccessExtendsValidity(t *testing.T) {
	c, clock := newTestCache(10, 30*time.Minute)

	c.Put("k", "v")
	for i := 0; i < 4; i++ {
		*clock = clock.Add(20 * time.Minute)
		_, ok := c.Get("k")
		require.True(t, ok, "touch %d", i)
	}
	// 80 minutes after insert the entry is still alive because every
	// access reset the TTL window. This is the reference semantics.
	*clock = clock.Add(31 * time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestEvictionRemovesOldestAccessed(t *testing.T) {
	c, clock := newTestCache(3, time.Hour)

	c.Put("a", "1")
	*clock = clock.Add(time.Minute)
	c.Put("b", "2")
	*clock = clock.Add(time.Minute)
	c.Put("c", "3")

	// Touch "a" so "b" now holds the oldest access timestamp.
	*clock = clock.Add(time.Minute)
	_, ok := c.Get("a")
	require.True(t, ok)

	*clock = clock.Add(time.Minute)
	c.Put("d", "4")

	assert.Equal(t, 3, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok, "least-recently-accessed entry should be evicted")
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %s", k)
	}
}

func TestCapacityPlusOneEvictsExactlyOne(t *testing.T) {
	const capacity = 5
	c, clock := newTestCache(capacity, time.Hour)

	for i := 0; i <= capacity; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
		*clock = clock.Add(time.Second)
	}

	assert.Equal(t, capacity, c.Len())
	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest key should be the single eviction victim")
}

func TestPutExistingKeyDoesNotEvict(t *testing.T) {
	c, clock := newTestCache(2, time.Hour)

	c.Put("a", "1")
	*clock = clock.Add(time.Second)
	c.Put("b", "2")
	*clock = clock.Add(time.Second)
	c.Put("a", "updated")

	assert.Equal(t, 2, c.Len())
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "updated", v)
	_, ok = c.Get("b")
	assert.True(t, ok)
}
