package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JanitorSweeps tracks completed cleanup passes
	JanitorSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "educache_janitor_sweeps_total",
			Help: "Total number of janitor cleanup sweeps",
		},
	)

	// JanitorRemoved tracks expired entries removed by the janitor per cache
	JanitorRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "educache_janitor_removed_total",
			Help: "Total number of expired entries removed by janitor sweeps",
		},
		[]string{"cache"},
	)
)
