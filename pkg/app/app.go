// Package app owns every cache instance of the server and their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sternrassler/edu-cache/pkg/cache"
	"github.com/Sternrassler/edu-cache/pkg/config"
	"github.com/Sternrassler/edu-cache/pkg/dashboard"
	"github.com/Sternrassler/edu-cache/pkg/logging"
	"github.com/Sternrassler/edu-cache/pkg/preload"
	"github.com/Sternrassler/edu-cache/pkg/progress"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Source supplies dashboard data for warm-up and read-through loads.
type Source interface {
	Users(ctx context.Context) ([]string, error)
	Summary(ctx context.Context, userID string) (dashboard.Summary, error)
	Subjects(ctx context.Context, userID string) ([]string, error)
	Subject(ctx context.Context, userID, subject string) (dashboard.SubjectData, error)
}

// App is the application context. Construct it with New, then call
// Initialize to start background work and Shutdown to stop it.
type App struct {
	// Component holds progress charts, API the encoded responses built from
	// them, UI the interface settings
	Component *cache.Cache[Chart]
	API       *cache.Cache[[]byte]
	UI        *cache.Cache[string]

	Dashboard *dashboard.Cache
	Progress  *progress.Cache
	Preloader *preload.Preloader

	// Source is nil when no data source is configured
	Source Source

	cfg     config.Config
	logger  zerolog.Logger
	janitor *Janitor

	registerOnce sync.Once
	registerErr  error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    <-chan error

	warmedMu sync.Mutex
	warmed   []string
}

// Status is a point-in-time view of every cache and the preloader.
type Status struct {
	Caches  map[string]cache.Stats `json:"caches"`
	Preload preload.Status         `json:"preload"`
	Running bool                   `json:"running"`
}

// New builds every cache from cfg. src may be nil.
func New(cfg config.Config, src Source, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Component: cache.New(cache.Options[Chart]{
			Name:       "component",
			MaxSize:    cfg.Cache.ComponentSize,
			DefaultTTL: cfg.Cache.DefaultTTL,
		}),
		API: cache.New(cache.Options[[]byte]{
			Name:       "api",
			MaxSize:    cfg.Cache.APISize,
			DefaultTTL: cfg.Cache.DefaultTTL,
		}),
		UI: cache.New(cache.Options[string]{
			Name:       "ui",
			MaxSize:    cfg.Cache.UISize,
			DefaultTTL: cfg.Cache.DefaultTTL,
		}),
		Dashboard: dashboard.New(dashboard.Options{
			MaxSize: cfg.Cache.DashboardSize,
			Logger:  logging.NewLogger(logger, "dashboard"),
		}),
		Preloader: preload.New(logging.NewLogger(logger, "preload")),
		Source:    src,
		cfg:       cfg,
		logger:    logging.NewLogger(logger, "app"),
	}

	popts := progress.DefaultOptions()
	popts.MaxSize = cfg.Cache.ProgressSize
	popts.DefaultSubject = cfg.Cache.DefaultSubject
	popts.Logger = logging.NewLogger(logger, "progress")
	a.Progress = progress.New(progress.SampleDataset(), popts)

	a.janitor = NewJanitor(cfg.Cache.CleanupInterval, logging.NewLogger(logger, "janitor"),
		Target{Name: "component", Cache: a.Component},
		Target{Name: "api", Cache: a.API},
		Target{Name: "ui", Cache: a.UI},
		Target{Name: "dashboard", Cache: a.Dashboard},
		Target{Name: "progress", Cache: a.Progress},
	)

	return a, nil
}

// Initialize registers the default strategies and starts the supervised
// janitor. Calling it again while running is a no-op.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.registerDefaults(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return nil
	}

	sup := suture.New("edu-cache", suture.Spec{
		EventHook: eventHook(a.logger),
		Timeout:   a.cfg.Server.ShutdownTimeout,
	})
	sup.Add(a.janitor)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.done = sup.ServeBackground(runCtx)
	a.running = true

	a.logger.Info().
		Dur("cleanup_interval", a.cfg.Cache.CleanupInterval).
		Bool("source", a.Source != nil).
		Msg("Application initialized")
	return nil
}

// InitializeCache runs PreloadAll with the configured priority floor.
func (a *App) InitializeCache(ctx context.Context) preload.Report {
	if err := a.registerDefaults(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to register preload strategies")
		return preload.Report{}
	}
	return a.Preloader.PreloadAll(ctx, a.cfg.PreloadOptions())
}

// Shutdown stops the supervisor and waits for it until ctx is done.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.cancel()
	done := a.done
	a.running = false
	a.mu.Unlock()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("Supervisor reported an error while stopping")
		}
		a.logger.Info().Msg("Application stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

// Running reports whether Initialize has started the janitor.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Sweep runs one janitor pass immediately and returns the removed counts by cache.
func (a *App) Sweep() map[string]int {
	return a.janitor.Sweep()
}

// Status returns statistics of every cache and the preloader state.
func (a *App) Status() Status {
	return Status{
		Caches: map[string]cache.Stats{
			"component": a.Component.Stats(),
			"api":       a.API.Stats(),
			"ui":        a.UI.Stats(),
			"dashboard": a.Dashboard.Stats(),
			"progress":  a.Progress.Stats(),
		},
		Preload: a.Preloader.Status(),
		Running: a.Running(),
	}
}

// eventHook logs supervisor events through zerolog.
func eventHook(logger zerolog.Logger) suture.EventHook {
	return func(e suture.Event) {
		logger.Warn().
			Fields(e.Map()).
			Int("event_type", int(e.Type())).
			Msg(e.String())
	}
}
