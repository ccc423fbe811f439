// Package metrics exposes the Prometheus registry used by the cache packages.
// All metrics are defined in their respective packages (cache, preload, app, source)
// to maintain modularity and avoid circular dependencies.
//
// This package provides the scrape handler and a reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler serving every registered metric.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache), label cache = component|api|ui|dashboard|progress:
//   - educache_cache_hits_total{cache} (Counter): Live entries returned by Get
//   - educache_cache_misses_total{cache} (Counter): Get calls that found nothing live
//   - educache_cache_evictions_total{cache} (Counter): LRU evictions caused by the size bound
//   - educache_cache_expirations_total{cache} (Counter): Expired entries removed lazily or by Cleanup
//   - educache_cache_entries{cache} (Gauge): Current number of entries
//
// Preload Metrics (pkg/preload):
//   - educache_preload_runs_total{result} (Counter): Strategy executions by result (completed, failed, skipped)
//   - educache_preload_duration_seconds (Histogram): Loader duration
//   - educache_preload_inflight (Gauge): Loaders currently running
//
// Janitor Metrics (pkg/app):
//   - educache_janitor_sweeps_total (Counter): Completed cleanup sweeps
//   - educache_janitor_removed_total{cache} (Counter): Entries removed by sweeps
//
// Source Metrics (pkg/source), label operation = ping|users|subjects|summary|subject|put_summary|put_subject:
//   - educache_source_errors_total{operation} (Counter): Failed Redis operations
//   - educache_source_retries_total{operation} (Counter): Retry attempts after transient failures
//   - educache_source_retry_exhausted_total{operation} (Counter): Reads that failed on every attempt
//
// Example Prometheus Queries:
//
//	# Cache Hit Rate per cache
//	sum by (cache) (rate(educache_cache_hits_total[5m])) /
//	(sum by (cache) (rate(educache_cache_hits_total[5m])) + sum by (cache) (rate(educache_cache_misses_total[5m])))
//
//	# Eviction pressure
//	rate(educache_cache_evictions_total[5m]) > 0
//
//	# Failed strategies since start
//	educache_preload_runs_total{result="failed"}
//
//	# P95 loader latency
//	histogram_quantile(0.95, rate(educache_preload_duration_seconds_bucket[5m]))
