// Package preload warms caches at startup by running named strategies.
//
// Each strategy has a priority, an optional list of dependencies and a
// loader. A Preloader tracks every strategy ID in one of three sets
// (loading, completed, failed) and runs a strategy at most once until Reset.
//
// Scheduling:
//   - PreloadAll filters by a priority floor, groups strategies into
//     dependency levels and starts higher priorities first in each level
//   - A FIFO semaphore caps the number of loaders in flight
//   - Each loader gets a context that is cancelled when its timeout elapses
//   - PreloadByIDs runs the named strategies together without reordering
//
// Usage:
//
//	p := preload.New(logger)
//	_ = p.Register(preload.Strategy{
//	    ID:       "progress-data",
//	    Priority: preload.High,
//	    Loader:   progressCache.Warm,
//	})
//	report := p.PreloadAll(ctx, preload.DefaultOptions())
//
// Failures never abort sibling strategies. They are returned per Settlement
// as *StrategyError values wrapping ErrDependencyNotMet, ErrTimeout,
// ErrDependencyCycle or the loader's own error.
//
// Prometheus Metrics:
//   - educache_preload_runs_total{result}: completed, failed, skipped
//   - educache_preload_duration_seconds: loader duration
//   - educache_preload_inflight: loaders currently running
package preload
