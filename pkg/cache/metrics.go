package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks successful reads by cache name
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	// CacheMisses tracks reads that found nothing live
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// CacheEvictions tracks LRU evictions caused by the size bound
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_cache_evictions_total",
			Help: "Total number of entries evicted by the LRU policy",
		},
		[]string{"cache"},
	)

	// CacheExpirations tracks entries removed because their TTL elapsed
	CacheExpirations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_cache_expirations_total",
			Help: "Total number of expired entries removed (lazy or sweep)",
		},
		[]string{"cache"},
	)

	// CacheEntries tracks the current number of stored entries
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "educache_cache_entries",
			Help: "Current number of entries held by the cache",
		},
		[]string{"cache"},
	)
)
