package preload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PreloadRuns tracks strategy outcomes (completed, failed, skipped)
	PreloadRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_preload_runs_total",
			Help: "Total number of strategy executions by result",
		},
		[]string{"result"},
	)

	// PreloadDuration tracks loader run time
	PreloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "educache_preload_duration_seconds",
			Help:    "Strategy loader duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PreloadInflight tracks loaders currently running
	PreloadInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "educache_preload_inflight",
			Help: "Number of strategy loaders currently running",
		},
	)
)
