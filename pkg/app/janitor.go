package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	Cleanup() int
}

// Target names a cache swept by the janitor.
type Target struct {
	Name  string
	Cache Cleaner
}

// Janitor periodically removes expired entries. It implements suture.Service.
type Janitor struct {
	interval time.Duration
	targets  []Target
	logger   zerolog.Logger
}

// NewJanitor creates a janitor sweeping targets every interval.
func NewJanitor(interval time.Duration, logger zerolog.Logger, targets ...Target) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Janitor{
		interval: interval,
		targets:  targets,
		logger:   logger,
	}
}

// Serve implements suture.Service. It sweeps on every tick until ctx is cancelled.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep cleans every target once and returns the removed count per target.
func (j *Janitor) Sweep() map[string]int {
	removed := make(map[string]int, len(j.targets))
	total := 0
	for _, t := range j.targets {
		n := t.Cache.Cleanup()
		removed[t.Name] = n
		total += n
		if n > 0 {
			JanitorRemoved.WithLabelValues(t.Name).Add(float64(n))
		}
	}
	JanitorSweeps.Inc()

	event := j.logger.Debug()
	if total > 0 {
		event = j.logger.Info()
	}
	dict := zerolog.Dict()
	for name, n := range removed {
		dict = dict.Int(name, n)
	}
	event.Int("total", total).Dict("removed", dict).Msg("Cache sweep complete")

	return removed
}

// String names the service in supervisor events.
func (j *Janitor) String() string {
	return "cache-janitor"
}
