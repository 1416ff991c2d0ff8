// Package cache implements the bounded TTL response cache keyed by
// normalized query text. Entries expire based on their last access time
// (not insertion time): a touch within the TTL keeps an entry alive, so a
// frequently read entry can outlive the nominal TTL. Expired entries are
// purged lazily on the next Get; there is no background sweep. When the
// cache is full the entry with the oldest access timestamp is evicted
// before insert.
package cache

import (
	"sync"
	"time"

	"github.com/hungryfork/concierge/logging"
)

// DefaultCapacity and DefaultTTL are sized for a single-restaurant
// deployment (hundreds of distinct query keys).
const (
	DefaultCapacity = 500
	DefaultTTL      = 30 * time.Minute
)

// Options configures a Cache.
type Options struct {
	Capacity int
	TTL      time.Duration
	Logger   logging.Logger
}

type entry struct {
	value  string
	access time.Time
}

// Cache is a concurrency-safe response cache. A miss is valid state, never
// an error. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	capacity int
	ttl      time.Duration
	logger   logging.Logger

	now func() time.Time // swapped in tests
}

// New constructs a cache with the given options applied over defaults.
func New(optFns ...func(o *Options)) *Cache {
	opts := Options{
		Capacity: DefaultCapacity,
		TTL:      DefaultTTL,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Cache{
		entries:  make(map[string]*entry),
		capacity: opts.Capacity,
		ttl:      opts.TTL,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

// Get returns the cached value for key if present and still valid, marking
// it as freshly accessed. A present-but-expired entry is deleted as a side
// effect.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	now := c.now()
	if now.Sub(e.access) >= c.ttl {
		delete(c.entries, key)
		return "", false
	}
	e.access = now
	c.logger.Debug("cache.hit", "key", truncateKey(key))
	return e.value, true
}

// Put stores value under key, refreshing its access timestamp. If the
// cache is at capacity and key is not already present, the entry with the
// oldest access timestamp is evicted first. The O(n) eviction scan is fine
// at the stated scale.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = &entry{value: value, access: c.now()}
	c.logger.Debug("cache.put", "key", truncateKey(key))
}

// Len returns the number of entries currently held, including any that
// have expired but not yet been lazily purged.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.access.Before(oldest) {
			oldestKey, oldest = k, e.access
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
		c.logger.Debug("cache.evict", "key", truncateKey(oldestKey))
	}
}

// truncateKey keeps log lines short for long normalized-query keys.
func truncateKey(key string) string {
	if len(key) > 50 {
		return key[:50] + "..."
	}
	return key
}
