package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultMaxSize is used when Options.MaxSize is not positive.
	DefaultMaxSize = 1000

	// DefaultTTL is used when Options.DefaultTTL is not positive.
	DefaultTTL = 5 * time.Minute
)

var (
	// ErrCacheMiss indicates the requested key was not found or has expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrNilFactory indicates GetOrSet was called without a factory
	ErrNilFactory = errors.New("cache factory cannot be nil")
)

// Factory produces a value for GetOrSet on a miss.
type Factory[T any] func(ctx context.Context) (T, error)

// Options configures a Cache.
type Options[T any] struct {
	// Name labels the cache in metrics and logs (e.g. "component", "dashboard")
	Name string

	// MaxSize bounds the number of entries; the least recently accessed
	// entry is evicted once it is exceeded
	MaxSize int

	// DefaultTTL applies when Set is called without an explicit TTL
	DefaultTTL time.Duration

	// OnEvict is called once per LRU eviction, under the cache lock.
	// It must not call back into the same cache.
	OnEvict func(key string, value T)

	// OnExpire is called for every expired entry removed by Get or Cleanup,
	// under the cache lock. The same restriction as OnEvict applies.
	OnExpire func(key string, value T)

	// Now is the clock (default: time.Now)
	Now func() time.Time
}

// Stats is a point-in-time summary of a cache.
type Stats struct {
	// Size is the number of stored entries
	Size int `json:"size"`

	// HitRate is TotalAccess / Size: average successful reads per entry
	HitRate float64 `json:"hit_rate"`

	// TotalAccess is the sum of AccessCount across entries
	TotalAccess int64 `json:"total_access"`

	// AverageAge is the mean of now - Timestamp across entries
	AverageAge time.Duration `json:"average_age"`
}

// Cache is a keyed store with per-entry TTL and capacity-bounded LRU eviction.
// It is safe for concurrent use.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*Entry[T]

	name       string
	maxSize    int
	defaultTTL time.Duration
	onEvict    func(key string, value T)
	onExpire   func(key string, value T)
	now        func() time.Time
	seq        uint64
}

// New creates a cache from opts, filling in defaults for zero values.
func New[T any](opts Options[T]) *Cache[T] {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Name == "" {
		opts.Name = "default"
	}

	return &Cache[T]{
		entries:    make(map[string]*Entry[T]),
		name:       opts.Name,
		maxSize:    opts.MaxSize,
		defaultTTL: opts.DefaultTTL,
		onEvict:    opts.OnEvict,
		onExpire:   opts.OnExpire,
		now:        opts.Now,
	}
}

// Name returns the cache name used for metrics.
func (c *Cache[T]) Name() string {
	return c.name
}

// Set stores data under key with the default TTL.
func (c *Cache[T]) Set(key string, data T) {
	c.SetWithTTL(key, data, 0)
}

// SetWithTTL stores data under key. A ttl <= 0 selects the default TTL.
// Overwriting resets the access bookkeeping.
func (c *Cache[T]) SetWithTTL(key string, data T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.seq++
	c.entries[key] = &Entry[T]{
		Data:        data,
		Timestamp:   now,
		TTL:         ttl,
		AccessCount: 0,
		LastAccess:  now,
		seq:         c.seq,
	}

	if len(c.entries) > c.maxSize {
		c.evictLocked()
	}
	CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
}

// evictLocked removes the entry with the oldest LastAccess. Equal times go
// to the entry written or read first, so the entry just stored is never the
// victim while others exist.
// O(n) scan; fine for hundreds to low thousands of entries.
func (c *Cache[T]) evictLocked() {
	var (
		oldestKey string
		oldest    *Entry[T]
	)
	for key, entry := range c.entries {
		if oldest == nil || entry.staler(oldest) {
			oldestKey = key
			oldest = entry
		}
	}
	if oldest == nil {
		return
	}

	if c.onEvict != nil {
		c.onEvict(oldestKey, oldest.Data)
	}
	delete(c.entries, oldestKey)
	CacheEvictions.WithLabelValues(c.name).Inc()
}

// expireLocked removes an expired entry and notifies OnExpire.
func (c *Cache[T]) expireLocked(key string, entry *Entry[T]) {
	delete(c.entries, key)
	if c.onExpire != nil {
		c.onExpire(key, entry.Data)
	}
}

// Get returns the value for key. Expired entries are removed and reported as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	entry, ok := c.entries[key]
	if !ok {
		CacheMisses.WithLabelValues(c.name).Inc()
		return zero, false
	}

	now := c.now()
	if entry.Expired(now) {
		c.expireLocked(key, entry)
		CacheExpirations.WithLabelValues(c.name).Inc()
		CacheMisses.WithLabelValues(c.name).Inc()
		CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
		return zero, false
	}

	c.seq++
	entry.AccessCount++
	entry.LastAccess = now
	entry.seq = c.seq
	CacheHits.WithLabelValues(c.name).Inc()

	return entry.Data, true
}

// Lookup is Get with an error result, returning ErrCacheMiss on a miss.
func (c *Cache[T]) Lookup(key string) (T, error) {
	data, ok := c.Get(key)
	if !ok {
		return data, ErrCacheMiss
	}
	return data, nil
}

// Has reports whether key holds a live entry. It does not touch access bookkeeping.
func (c *Cache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	return ok && !entry.Expired(c.now())
}

// Delete removes key and reports whether anything was removed.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	return true
}

// DeleteFunc removes every key for which match returns true and returns the count.
func (c *Cache[T]) DeleteFunc(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
	return removed
}

// Clear removes all entries.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry[T])
	CacheEntries.WithLabelValues(c.name).Set(0)
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns all stored keys in sorted order.
func (c *Cache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns size, access and age figures. All fields are zero for an empty cache.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := len(c.entries)
	if size == 0 {
		return Stats{}
	}

	now := c.now()
	var (
		totalAccess int64
		totalAge    time.Duration
	)
	for _, entry := range c.entries {
		totalAccess += entry.AccessCount
		totalAge += entry.Age(now)
	}

	return Stats{
		Size:        size,
		HitRate:     float64(totalAccess) / float64(size),
		TotalAccess: totalAccess,
		AverageAge:  totalAge / time.Duration(size),
	}
}

// Cleanup removes every expired entry and returns how many were removed.
func (c *Cache[T]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if entry.Expired(now) {
			c.expireLocked(key, entry)
			removed++
		}
	}
	if removed > 0 {
		CacheExpirations.WithLabelValues(c.name).Add(float64(removed))
		CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
	return removed
}

// GetOrSet returns the cached value for key or stores the factory result with the default TTL.
func (c *Cache[T]) GetOrSet(ctx context.Context, key string, factory Factory[T]) (T, error) {
	return c.GetOrSetWithTTL(ctx, key, factory, 0)
}

// GetOrSetWithTTL returns the cached value for key, or calls factory once,
// stores its result with ttl, and returns it. Factory errors are returned and
// nothing is stored. Concurrent callers on the same missing key each call
// their own factory.
func (c *Cache[T]) GetOrSetWithTTL(ctx context.Context, key string, factory Factory[T], ttl time.Duration) (T, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	if factory == nil {
		var zero T
		return zero, ErrNilFactory
	}

	data, err := factory(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("cache %s: load %q: %w", c.name, key, err)
	}

	c.SetWithTTL(key, data, ttl)
	return data, nil
}
