package preload

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Preloader runs registered strategies with priority ordering, dependency
// gating and bounded concurrency. A strategy runs at most once until Reset.
type Preloader struct {
	mu         sync.Mutex
	strategies map[string]Strategy
	loading    map[string]struct{}
	completed  map[string]struct{}
	failed     map[string]struct{}

	logger zerolog.Logger
}

// New creates an empty preloader.
func New(logger zerolog.Logger) *Preloader {
	return &Preloader{
		strategies: make(map[string]Strategy),
		loading:    make(map[string]struct{}),
		completed:  make(map[string]struct{}),
		failed:     make(map[string]struct{}),
		logger:     logger,
	}
}

// Register adds s to the registry. Registering an existing ID replaces it.
func (p *Preloader) Register(s Strategy) error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidStrategy)
	}
	if s.Loader == nil {
		return &StrategyError{ID: s.ID, Err: fmt.Errorf("%w: nil loader", ErrInvalidStrategy)}
	}
	if !s.Priority.Valid() {
		return &StrategyError{ID: s.ID, Err: fmt.Errorf("%w: %s", ErrInvalidStrategy, s.Priority)}
	}

	p.mu.Lock()
	p.strategies[s.ID] = s
	p.mu.Unlock()

	p.logger.Debug().
		Str("strategy", s.ID).
		Str("priority", s.Priority.String()).
		Strs("dependencies", s.Dependencies).
		Msg("Registered preload strategy")
	return nil
}

// Strategy returns the registered strategy with the given ID.
func (p *Preloader) Strategy(id string) (Strategy, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.strategies[id]
	return s, ok
}

// Execute runs one strategy. It is a no-op when the strategy is already
// loading or completed, and fails with ErrDependencyNotMet without calling
// the loader when a dependency has not completed. The loader context is
// cancelled when timeout elapses.
func (p *Preloader) Execute(ctx context.Context, s Strategy, timeout time.Duration) error {
	return p.execute(ctx, s, timeout).Err
}

func (p *Preloader) execute(ctx context.Context, s Strategy, timeout time.Duration) Settlement {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	settlement := Settlement{ID: s.ID}
	start := time.Now()

	p.mu.Lock()
	if _, ok := p.loading[s.ID]; ok {
		p.mu.Unlock()
		return p.skip(settlement)
	}
	if _, ok := p.completed[s.ID]; ok {
		p.mu.Unlock()
		return p.skip(settlement)
	}
	for _, dep := range s.Dependencies {
		if _, ok := p.completed[dep]; !ok {
			p.mu.Unlock()
			settlement.Err = &StrategyError{ID: s.ID, Err: fmt.Errorf("%w: %s", ErrDependencyNotMet, dep)}
			p.logger.Warn().
				Str("strategy", s.ID).
				Str("dependency", dep).
				Msg("Preload strategy dependency not met")
			PreloadRuns.WithLabelValues("failed").Inc()
			return settlement
		}
	}
	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		settlement.Err = &StrategyError{ID: s.ID, Err: err}
		return settlement
	}
	delete(p.failed, s.ID)
	p.loading[s.ID] = struct{}{}
	p.mu.Unlock()

	p.logger.Debug().Str("strategy", s.ID).Dur("timeout", timeout).Msg("Preload strategy started")

	PreloadInflight.Inc()
	err := runLoader(ctx, s.Loader, timeout)
	PreloadInflight.Dec()

	settlement.Duration = time.Since(start)
	PreloadDuration.Observe(settlement.Duration.Seconds())

	p.mu.Lock()
	delete(p.loading, s.ID)
	if err != nil {
		p.failed[s.ID] = struct{}{}
	} else {
		p.completed[s.ID] = struct{}{}
	}
	p.mu.Unlock()

	if err != nil {
		settlement.Err = &StrategyError{ID: s.ID, Err: err}
		PreloadRuns.WithLabelValues("failed").Inc()
		p.logger.Warn().
			Err(err).
			Str("strategy", s.ID).
			Dur("duration", settlement.Duration).
			Msg("Preload strategy failed")
		return settlement
	}

	PreloadRuns.WithLabelValues("completed").Inc()
	p.logger.Info().
		Str("strategy", s.ID).
		Dur("duration", settlement.Duration).
		Msg("Preload strategy completed")
	return settlement
}

func (p *Preloader) skip(s Settlement) Settlement {
	s.Skipped = true
	PreloadRuns.WithLabelValues("skipped").Inc()
	p.logger.Debug().Str("strategy", s.ID).Msg("Preload strategy already loaded, skipping")
	return s
}

// runLoader calls loader with a deadline and returns ErrTimeout if the
// deadline passes first. A loader that ignores its context keeps running in
// its goroutine, but its result is discarded.
func runLoader(parent context.Context, loader Loader, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", ErrLoaderPanic, r)
			}
		}()
		done <- loader(ctx)
	}()

	return awaitLoader(parent, ctx, done, timeout)
}

// awaitLoader waits for the loader result on done or the end of ctx. A result
// that is already available wins over an expired deadline.
func awaitLoader(parent, ctx context.Context, done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return loaderResult(parent, ctx, err, timeout)
	case <-ctx.Done():
		select {
		case err := <-done:
			return loaderResult(parent, ctx, err, timeout)
		default:
		}
		if parent.Err() != nil {
			return parent.Err()
		}
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}

// loaderResult classifies a finished loader's error. A failure caused by the
// deadline is reported as ErrTimeout.
func loaderResult(parent, ctx context.Context, err error, timeout time.Duration) error {
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
	}
	return err
}

// PreloadAll runs every strategy at or above opts.Priority. Strategies are
// scheduled in dependency levels; within a level higher priorities start
// first. At most opts.MaxConcurrent loaders run at once. Failures are
// reported per settlement and never abort siblings.
func (p *Preloader) PreloadAll(ctx context.Context, opts Options) Report {
	opts = opts.withDefaults()
	start := time.Now()

	selected := p.selectByPriority(opts.Priority)
	levels, cyclic := dependencyLevels(selected)

	results := make([]Settlement, 0, len(selected))
	sem := semaphore.NewWeighted(int64(opts.MaxConcurrent))

	for _, level := range levels {
		settled := make([]Settlement, len(level))
		var wg sync.WaitGroup

		for i, s := range level {
			if err := sem.Acquire(ctx, 1); err != nil {
				settled[i] = Settlement{ID: s.ID, Err: &StrategyError{ID: s.ID, Err: err}}
				continue
			}
			wg.Add(1)
			go func(i int, s Strategy) {
				defer wg.Done()
				defer sem.Release(1)
				settled[i] = p.execute(ctx, s, opts.Timeout)
			}(i, s)
		}

		wg.Wait()
		results = append(results, settled...)
	}

	for _, s := range cyclic {
		p.logger.Warn().Str("strategy", s.ID).Strs("dependencies", s.Dependencies).Msg("Preload strategy is part of a dependency cycle")
		PreloadRuns.WithLabelValues("failed").Inc()
		results = append(results, Settlement{ID: s.ID, Err: &StrategyError{ID: s.ID, Err: ErrDependencyCycle}})
	}

	report := newReport(results)
	p.logger.Info().
		Str("priority", opts.Priority.String()).
		Int("total", report.Total).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Int("levels", len(levels)).
		Dur("duration", time.Since(start)).
		Msg("Preload complete")
	return report
}

// PreloadByIDs runs exactly the named strategies at the same time, in no
// particular order. Unknown IDs settle with ErrUnknownStrategy.
func (p *Preloader) PreloadByIDs(ctx context.Context, ids []string, timeout time.Duration) Report {
	results := make([]Settlement, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		s, ok := p.Strategy(id)
		if !ok {
			results[i] = Settlement{ID: id, Err: &StrategyError{ID: id, Err: ErrUnknownStrategy}}
			continue
		}
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			results[i] = p.execute(ctx, s, timeout)
		}(i, s)
	}
	wg.Wait()

	report := newReport(results)
	p.logger.Info().
		Strs("ids", ids).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Msg("Preload by id complete")
	return report
}

// Status returns a snapshot of registered and tracked strategy IDs.
func (p *Preloader) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Status{
		Registered: len(p.strategies),
		Loading:    sortedIDs(p.loading),
		Completed:  sortedIDs(p.completed),
		Failed:     sortedIDs(p.failed),
	}
}

// Reset forgets which strategies ran. Registrations are kept.
func (p *Preloader) Reset() {
	p.mu.Lock()
	p.loading = make(map[string]struct{})
	p.completed = make(map[string]struct{})
	p.failed = make(map[string]struct{})
	p.mu.Unlock()

	p.logger.Debug().Msg("Preloader state reset")
}

func (p *Preloader) selectByPriority(floor Priority) []Strategy {
	p.mu.Lock()
	defer p.mu.Unlock()

	selected := make([]Strategy, 0, len(p.strategies))
	for _, s := range p.strategies {
		if s.Priority >= floor {
			selected = append(selected, s)
		}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].ID < selected[j].ID })
	return selected
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
