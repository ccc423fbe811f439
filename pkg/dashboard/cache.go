// Package dashboard caches per-user dashboard data with volatility-based TTL tiers.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/edu-cache/pkg/cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SummaryLoader fetches a user's dashboard summary from the backing store.
type SummaryLoader func(ctx context.Context, userID string) (Summary, error)

// SubjectLoader fetches a user's data for one subject from the backing store.
type SubjectLoader func(ctx context.Context, userID, subject string) (SubjectData, error)

// TTLs holds the expiry tier for each category.
type TTLs struct {
	Summary         time.Duration
	Activity        time.Duration
	Proficiency     time.Duration
	Recommendations time.Duration
	Subject         time.Duration
	RecentActivity  time.Duration
}

// DefaultTTLs returns the standard tiers: volatile feeds 2m, core data 5m,
// slow-moving breakdowns 15m.
func DefaultTTLs() TTLs {
	return TTLs{
		Summary:         5 * time.Minute,
		Activity:        5 * time.Minute,
		Proficiency:     15 * time.Minute,
		Recommendations: 15 * time.Minute,
		Subject:         5 * time.Minute,
		RecentActivity:  2 * time.Minute,
	}
}

// Options configures a dashboard Cache.
type Options struct {
	MaxSize int
	TTLs    TTLs
	Logger  zerolog.Logger
	Now     func() time.Time
}

// Cache stores dashboard values for many users in one bounded cache.
type Cache struct {
	store  *cache.Cache[Value]
	ttls   TTLs
	logger zerolog.Logger
}

// New creates a dashboard cache. Zero TTLs take the default tier.
func New(opts Options) *Cache {
	def := DefaultTTLs()
	ttls := opts.TTLs
	if ttls.Summary <= 0 {
		ttls.Summary = def.Summary
	}
	if ttls.Activity <= 0 {
		ttls.Activity = def.Activity
	}
	if ttls.Proficiency <= 0 {
		ttls.Proficiency = def.Proficiency
	}
	if ttls.Recommendations <= 0 {
		ttls.Recommendations = def.Recommendations
	}
	if ttls.Subject <= 0 {
		ttls.Subject = def.Subject
	}
	if ttls.RecentActivity <= 0 {
		ttls.RecentActivity = def.RecentActivity
	}

	return &Cache{
		store: cache.New(cache.Options[Value]{
			Name:       "dashboard",
			MaxSize:    opts.MaxSize,
			DefaultTTL: ttls.Summary,
			Now:        opts.Now,
		}),
		ttls:   ttls,
		logger: opts.Logger,
	}
}

// cloner is a Value that can copy itself.
type cloner[T any] interface {
	Value
	clone() T
}

// lookup reads key, asserts the stored kind and returns a copy. Setters store
// copies too, so callers never share slices with the cache.
func lookup[T cloner[T]](c *Cache, key Key) (T, bool) {
	var zero T
	v, ok := c.store.Get(key.String())
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		c.logger.Warn().Str("key", key.String()).Msg("Unexpected value kind in dashboard cache")
		return zero, false
	}
	return typed.clone(), true
}

func userKey(category Category, userID string) Key {
	return Key{Category: category, UserID: userID}
}

func subjectKey(userID, subject string) Key {
	return Key{Category: CategorySubject, UserID: userID, Suffix: subject}
}

// Summary returns the cached dashboard summary of userID.
func (c *Cache) Summary(userID string) (Summary, bool) {
	return lookup[Summary](c, userKey(CategorySummary, userID))
}

// SetSummary caches the dashboard summary of userID.
func (c *Cache) SetSummary(userID string, s Summary) {
	c.store.SetWithTTL(userKey(CategorySummary, userID).String(), s.clone(), c.ttls.Summary)
}

// Activity returns the cached activity series of userID.
func (c *Cache) Activity(userID string) (ActivitySeries, bool) {
	return lookup[ActivitySeries](c, userKey(CategoryActivity, userID))
}

// SetActivity caches the activity series of userID.
func (c *Cache) SetActivity(userID string, a ActivitySeries) {
	c.store.SetWithTTL(userKey(CategoryActivity, userID).String(), a.clone(), c.ttls.Activity)
}

// Proficiency returns the cached proficiency breakdown of userID.
func (c *Cache) Proficiency(userID string) (ProficiencyReport, bool) {
	return lookup[ProficiencyReport](c, userKey(CategoryProficiency, userID))
}

// SetProficiency caches the proficiency breakdown of userID.
func (c *Cache) SetProficiency(userID string, p ProficiencyReport) {
	c.store.SetWithTTL(userKey(CategoryProficiency, userID).String(), p.clone(), c.ttls.Proficiency)
}

// Recommendations returns the cached recommendations of userID.
func (c *Cache) Recommendations(userID string) (Recommendations, bool) {
	return lookup[Recommendations](c, userKey(CategoryRecommendations, userID))
}

// SetRecommendations caches the recommendations of userID.
func (c *Cache) SetRecommendations(userID string, r Recommendations) {
	c.store.SetWithTTL(userKey(CategoryRecommendations, userID).String(), r.clone(), c.ttls.Recommendations)
}

// Subject returns the cached subject data of userID.
func (c *Cache) Subject(userID, subject string) (SubjectData, bool) {
	return lookup[SubjectData](c, subjectKey(userID, subject))
}

// SetSubject caches the subject data of userID.
func (c *Cache) SetSubject(userID, subject string, d SubjectData) {
	c.store.SetWithTTL(subjectKey(userID, subject).String(), d.clone(), c.ttls.Subject)
}

// RecentActivity returns the cached recent activity feed of userID.
func (c *Cache) RecentActivity(userID string) (RecentActivity, bool) {
	return lookup[RecentActivity](c, userKey(CategoryRecentActivity, userID))
}

// SetRecentActivity caches the recent activity feed of userID.
func (c *Cache) SetRecentActivity(userID string, r RecentActivity) {
	c.store.SetWithTTL(userKey(CategoryRecentActivity, userID).String(), r.clone(), c.ttls.RecentActivity)
}

// SummaryOrLoad returns the cached summary or loads and caches it.
// Loader errors are returned to the caller.
func (c *Cache) SummaryOrLoad(ctx context.Context, userID string, loader SummaryLoader) (Summary, error) {
	if s, ok := c.Summary(userID); ok {
		return s, nil
	}

	s, err := loader(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load summary for %s: %w", userID, err)
	}
	c.SetSummary(userID, s)
	return s, nil
}

// SubjectOrLoad returns the cached subject data or loads and caches it.
// Loader errors are returned to the caller.
func (c *Cache) SubjectOrLoad(ctx context.Context, userID, subject string, loader SubjectLoader) (SubjectData, error) {
	if d, ok := c.Subject(userID, subject); ok {
		return d, nil
	}

	d, err := loader(ctx, userID, subject)
	if err != nil {
		return SubjectData{}, fmt.Errorf("load subject %s for %s: %w", subject, userID, err)
	}
	c.SetSubject(userID, subject, d)
	return d, nil
}

// BatchGet reads summary, activity, proficiency and recommendations of
// userID concurrently. Missing parts are left nil.
func (c *Cache) BatchGet(ctx context.Context, userID string) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	var (
		b Batch
		g errgroup.Group
	)

	g.Go(func() error {
		if s, ok := c.Summary(userID); ok {
			b.Summary = &s
		}
		return nil
	})
	g.Go(func() error {
		if a, ok := c.Activity(userID); ok {
			b.Activity = a
		}
		return nil
	})
	g.Go(func() error {
		if p, ok := c.Proficiency(userID); ok {
			b.Proficiency = p
		}
		return nil
	})
	g.Go(func() error {
		if r, ok := c.Recommendations(userID); ok {
			b.Recommendations = r
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Batch{}, err
	}
	return b, nil
}

// BatchSet writes every non-nil part of b for userID concurrently.
func (c *Cache) BatchSet(ctx context.Context, userID string, b Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var g errgroup.Group
	if b.Summary != nil {
		s := *b.Summary
		g.Go(func() error { c.SetSummary(userID, s); return nil })
	}
	if b.Activity != nil {
		g.Go(func() error { c.SetActivity(userID, b.Activity); return nil })
	}
	if b.Proficiency != nil {
		g.Go(func() error { c.SetProficiency(userID, b.Proficiency); return nil })
	}
	if b.Recommendations != nil {
		g.Go(func() error { c.SetRecommendations(userID, b.Recommendations); return nil })
	}
	return g.Wait()
}

// InvalidateUserData removes every fixed per-user entry and all subject
// entries of userID. Returns the number of entries removed.
func (c *Cache) InvalidateUserData(userID string) int {
	removed := 0
	for _, category := range userCategories {
		if c.store.Delete(userKey(category, userID).String()) {
			removed++
		}
	}

	prefix := subjectPrefix(userID)
	removed += c.store.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})

	c.logger.Debug().Str("user_id", userID).Int("removed", removed).Msg("Invalidated user dashboard data")
	return removed
}

// InvalidateSubjectData removes one subject entry of userID together with
// the summary and proficiency entries derived from it.
func (c *Cache) InvalidateSubjectData(userID, subject string) int {
	removed := 0
	for _, key := range []Key{
		subjectKey(userID, subject),
		userKey(CategorySummary, userID),
		userKey(CategoryProficiency, userID),
	} {
		if c.store.Delete(key.String()) {
			removed++
		}
	}
	return removed
}

// WarmCache loads and caches the summary of every user that has none.
// A failing user is logged and counted; it never aborts the batch.
func (c *Cache) WarmCache(ctx context.Context, userIDs []string, loader SummaryLoader) WarmReport {
	var report WarmReport
	start := time.Now()

	for _, userID := range userIDs {
		if ctx.Err() != nil {
			c.logger.Debug().
				Int("warmed", report.Warmed).
				Msg("Warm-up stopping (context cancelled)")
			break
		}

		if c.store.Has(userKey(CategorySummary, userID).String()) {
			report.Skipped++
			continue
		}

		s, err := loader(ctx, userID)
		if err != nil {
			report.Failed++
			c.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Msg("Dashboard warm-up failed for user")
			continue
		}

		c.SetSummary(userID, s)
		report.Warmed++
	}

	c.logger.Info().
		Int("users", len(userIDs)).
		Int("warmed", report.Warmed).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", time.Since(start)).
		Msg("Dashboard warm-up complete")

	return report
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Clear()
}

// Cleanup removes expired entries.
func (c *Cache) Cleanup() int {
	return c.store.Cleanup()
}

// Stats returns the underlying cache statistics.
func (c *Cache) Stats() cache.Stats {
	return c.store.Stats()
}

// Keys returns the stored keys.
func (c *Cache) Keys() []string {
	return c.store.Keys()
}
