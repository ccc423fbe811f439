package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/edu-cache/pkg/preload"
)

// Default strategy IDs.
const (
	StrategyProgressData  = "progress-data"
	StrategyDashboardData = "dashboard-data"
	StrategyTopSubject    = "top-subject"
	StrategySubjectData   = "subject-data"
	StrategyUIDefaults    = "ui-defaults"
)

// uiDefaults are seeded into the UI cache by the ui-defaults strategy.
var uiDefaults = map[string]string{
	"ui_theme":            "light",
	"ui_locale":           "en",
	"ui_dashboard_layout": "grid",
	"ui_chart_months":     "6",
}

func (a *App) registerDefaults() error {
	a.registerOnce.Do(func() {
		for _, s := range a.defaultStrategies() {
			if err := a.Preloader.Register(s); err != nil {
				a.registerErr = fmt.Errorf("register %s: %w", s.ID, err)
				return
			}
		}
	})
	return a.registerErr
}

// defaultStrategies lists the built-in strategies. The dashboard strategies
// are only present when a source is configured.
func (a *App) defaultStrategies() []preload.Strategy {
	strategies := []preload.Strategy{
		{
			ID:            StrategyProgressData,
			Name:          "Progress series and statistics",
			Priority:      preload.High,
			Loader:        a.Progress.Warm,
			EstimatedTime: 10 * time.Millisecond,
		},
		{
			ID:           StrategyTopSubject,
			Name:         "Top subject",
			Priority:     preload.Medium,
			Dependencies: []string{StrategyProgressData},
			Loader: func(ctx context.Context) error {
				subject := a.Progress.TopSubject()
				a.logger.Debug().Str("subject", subject).Msg("Top subject cached")
				return nil
			},
		},
		{
			ID:       StrategyUIDefaults,
			Name:     "UI defaults",
			Priority: preload.Low,
			Loader:   a.seedUIDefaults,
		},
	}

	if a.Source != nil {
		strategies = append(strategies,
			preload.Strategy{
				ID:            StrategyDashboardData,
				Name:          "Dashboard summaries",
				Priority:      preload.High,
				Loader:        a.warmDashboards,
				EstimatedTime: time.Second,
			},
			preload.Strategy{
				ID:           StrategySubjectData,
				Name:         "Per-subject dashboard data",
				Priority:     preload.Medium,
				Dependencies: []string{StrategyDashboardData},
				Loader:       a.warmSubjects,
			},
		)
	}
	return strategies
}

// warmDashboards caches the summary of every configured (or known) user.
// Per-user failures are logged by WarmCache and do not fail the strategy.
func (a *App) warmDashboards(ctx context.Context) error {
	users := a.cfg.Preload.UserIDs
	if len(users) == 0 {
		var err error
		users, err = a.Source.Users(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
	}

	report := a.Dashboard.WarmCache(ctx, users, a.Source.Summary)
	if err := ctx.Err(); err != nil {
		return err
	}

	a.warmedMu.Lock()
	a.warmed = users
	a.warmedMu.Unlock()

	a.logger.Debug().
		Int("warmed", report.Warmed).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("Dashboard data strategy finished")
	return nil
}

// warmSubjects loads every subject of the users handled by warmDashboards.
func (a *App) warmSubjects(ctx context.Context) error {
	a.warmedMu.Lock()
	users := append([]string(nil), a.warmed...)
	a.warmedMu.Unlock()

	loaded, failed := 0, 0
	for _, userID := range users {
		subjects, err := a.Source.Subjects(ctx, userID)
		if err != nil {
			failed++
			a.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to list subjects")
			continue
		}
		for _, subject := range subjects {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := a.Dashboard.SubjectOrLoad(ctx, userID, subject, a.Source.Subject); err != nil {
				failed++
				a.logger.Warn().Err(err).Str("user_id", userID).Str("subject", subject).Msg("Subject warm-up failed")
				continue
			}
			loaded++
		}
	}

	a.logger.Debug().Int("users", len(users)).Int("loaded", loaded).Int("failed", failed).Msg("Subject data strategy finished")
	return ctx.Err()
}

func (a *App) seedUIDefaults(ctx context.Context) error {
	for key, value := range uiDefaults {
		if !a.UI.Has(key) {
			a.UI.Set(key, value)
		}
	}
	return nil
}
