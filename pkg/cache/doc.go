// Package cache provides a generic in-memory cache with TTL expiry and
// capacity-bounded LRU eviction.
//
// The cache implements the following behavior:
//
// - Per-entry TTL (live while now - timestamp <= ttl)
// - Lazy expiry on Get plus an eager Cleanup sweep
// - LRU eviction by last successful read once MaxSize is exceeded
// - Optional OnEvict callback per eviction and OnExpire callback per expiry
// - Read-through GetOrSet with error propagation
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	c := cache.New(cache.Options[[]byte]{
//		Name:       "api",
//		MaxSize:    200,
//		DefaultTTL: 5 * time.Minute,
//	})
//
//	c.Set("lessons:42", payload)
//
//	if data, ok := c.Get("lessons:42"); ok {
//		// Cache hit
//	}
//
// # Read-Through
//
//	data, err := c.GetOrSet(ctx, "lessons:42", func(ctx context.Context) ([]byte, error) {
//		return fetchLesson(ctx, 42)
//	})
//	if err != nil {
//		// Factory failed, nothing was stored
//	}
//
// # Statistics
//
// Stats reports HitRate as TotalAccess / Size, the average number of
// successful reads per stored entry. It is not a hit/miss ratio; use the
// Prometheus counters for that.
//
// # Metrics
//
// The cache exports Prometheus metrics labelled by cache name:
//
//   - educache_cache_hits_total{cache} - Cache hits
//   - educache_cache_misses_total{cache} - Cache misses (absent or expired)
//   - educache_cache_evictions_total{cache} - LRU evictions
//   - educache_cache_expirations_total{cache} - Expired entries removed
//   - educache_cache_entries{cache} - Current entry count
//
// # Scale
//
// Eviction scans all entries for the oldest LastAccess. This is O(n) per
// eviction and is meant for caches of hundreds to low thousands of entries.
package cache
