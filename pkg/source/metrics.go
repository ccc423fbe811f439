package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceErrors tracks failed Redis operations by operation
	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_source_errors_total",
			Help: "Total number of data source errors by operation",
		},
		[]string{"operation"},
	)

	// SourceRetries tracks retry attempts after transient failures
	SourceRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_source_retries_total",
			Help: "Total number of data source retry attempts by operation",
		},
		[]string{"operation"},
	)

	// SourceRetryExhausted tracks operations that failed on every attempt
	SourceRetryExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_source_retry_exhausted_total",
			Help: "Total number of data source operations that exhausted their retries",
		},
		[]string{"operation"},
	)
)
