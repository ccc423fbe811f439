package preload

import (
	"context"
	"time"
)

const (
	// DefaultMaxConcurrent caps in-flight loaders in PreloadAll.
	DefaultMaxConcurrent = 3

	// DefaultTimeout bounds a single loader run.
	DefaultTimeout = 30 * time.Second
)

// Loader populates one or more caches. It must return once ctx is done.
type Loader func(ctx context.Context) error

// Strategy is a named cache population routine.
type Strategy struct {
	ID       string
	Name     string
	Priority Priority
	Loader   Loader

	// Dependencies lists strategy IDs that must have completed first
	Dependencies []string

	// EstimatedTime is informational only
	EstimatedTime time.Duration
}

// Options configures PreloadAll.
type Options struct {
	// Priority is the floor: only strategies at or above it run (default High)
	Priority Priority

	// MaxConcurrent caps loaders running at the same time (default 3)
	MaxConcurrent int

	// Timeout bounds each loader (default 30s)
	Timeout time.Duration
}

// DefaultOptions returns the options used by application startup.
func DefaultOptions() Options {
	return Options{
		Priority:      High,
		MaxConcurrent: DefaultMaxConcurrent,
		Timeout:       DefaultTimeout,
	}
}

func (o Options) withDefaults() Options {
	if !o.Priority.Valid() {
		o.Priority = High
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Settlement is the outcome of one strategy within a preload call.
type Settlement struct {
	ID string `json:"id"`

	// Err is nil when the strategy completed or was skipped
	Err error `json:"-"`

	// Skipped is true when the strategy was already loading or completed
	Skipped bool `json:"skipped"`

	Duration time.Duration `json:"duration"`
}

// Report summarises a PreloadAll or PreloadByIDs call.
type Report struct {
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Failed    int          `json:"failed"`
	Results   []Settlement `json:"results"`
}

func newReport(results []Settlement) Report {
	r := Report{Total: len(results), Results: results}
	for _, s := range results {
		if s.Err != nil {
			r.Failed++
		} else {
			r.Completed++
		}
	}
	return r
}

// Status is a snapshot of the preloader state.
type Status struct {
	Registered int      `json:"registered"`
	Loading    []string `json:"loading"`
	Completed  []string `json:"completed"`
	Failed     []string `json:"failed"`
}
