package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/edu-cache/pkg/cache"
	"github.com/rs/zerolog"
)

// Cache key prefixes.
const (
	keySeries     = "subject_progress_"
	keyStats      = "progress_stats_"
	keyInsights   = "insights_"
	keyTopSubject = "top_subject"
)

// Value is a cached progress value. The set of implementations is closed.
type Value interface {
	progressValue()
}

// Series is a cached progress series.
type Series []Record

// Insight is externally generated text about a subject.
type Insight string

// TopSubject is the cached ID of the best performing subject.
type TopSubject string

func (Series) progressValue()     {}
func (Stats) progressValue()      {}
func (Insight) progressValue()    {}
func (TopSubject) progressValue() {}

// Options configures a progress Cache.
type Options struct {
	MaxSize        int
	SeriesTTL      time.Duration
	StatsTTL       time.Duration
	InsightTTL     time.Duration
	TopSubjectTTL  time.Duration
	DefaultSubject string
	Logger         zerolog.Logger
	Now            func() time.Time
}

// DefaultOptions returns the standard TTL tiers.
func DefaultOptions() Options {
	return Options{
		MaxSize:        100,
		SeriesTTL:      10 * time.Minute,
		StatsTTL:       15 * time.Minute,
		InsightTTL:     10 * time.Minute,
		TopSubjectTTL:  2 * time.Minute,
		DefaultSubject: "math",
		Logger:         zerolog.Nop(),
	}
}

// Cache serves progress series, derived statistics, the top subject and
// insight text from a read-only Dataset.
type Cache struct {
	data   Dataset
	store  *cache.Cache[Value]
	index  *keyIndex
	opts   Options
	logger zerolog.Logger
}

// New creates a progress cache over data. Zero option fields take the defaults.
func New(data Dataset, opts Options) *Cache {
	def := DefaultOptions()
	if opts.MaxSize <= 0 {
		opts.MaxSize = def.MaxSize
	}
	if opts.SeriesTTL <= 0 {
		opts.SeriesTTL = def.SeriesTTL
	}
	if opts.StatsTTL <= 0 {
		opts.StatsTTL = def.StatsTTL
	}
	if opts.InsightTTL <= 0 {
		opts.InsightTTL = def.InsightTTL
	}
	if opts.TopSubjectTTL <= 0 {
		opts.TopSubjectTTL = def.TopSubjectTTL
	}
	if opts.DefaultSubject == "" {
		opts.DefaultSubject = def.DefaultSubject
	}

	c := &Cache{
		data:   data,
		index:  newKeyIndex(),
		opts:   opts,
		logger: opts.Logger,
	}
	c.store = cache.New(cache.Options[Value]{
		Name:       "progress",
		MaxSize:    opts.MaxSize,
		DefaultTTL: opts.SeriesTTL,
		Now:        opts.Now,
		OnEvict: func(key string, _ Value) {
			c.index.forget(key)
		},
		OnExpire: func(key string, _ Value) {
			c.index.forget(key)
		},
	})
	return c
}

// dependsOn lists the subjects a key for subject is derived from.
func (c *Cache) dependsOn(subject string) []string {
	if subject == AllSubjects {
		return append([]string{AllSubjects}, c.data.IDs()...)
	}
	return []string{subject}
}

func (c *Cache) put(key string, v Value, ttl time.Duration, subject string) {
	c.store.SetWithTTL(key, v, ttl)
	c.index.add(key, c.dependsOn(subject)...)
}

// SubjectProgress returns the monthly series for subject. For AllSubjects it
// returns the rounded per-month average over every subject; an unknown
// subject yields an empty series. The result is a copy owned by the caller.
func (c *Cache) SubjectProgress(subject string) []Record {
	key := keySeries + subject
	if v, ok := c.store.Get(key); ok {
		if s, ok := v.(Series); ok {
			c.logger.Debug().Str("key", key).Bool("cache_hit", true).Msg("Progress series")
			return append([]Record{}, s...)
		}
	}

	var series Series
	if subject == AllSubjects {
		series = averageByMonth(c.data)
	} else if records, ok := c.data.Lookup(subject); ok {
		series = append(Series(nil), records...)
	} else {
		series = Series{}
	}

	c.put(key, series, c.opts.SeriesTTL, subject)
	c.logger.Debug().Str("key", key).Bool("cache_hit", false).Int("months", len(series)).Msg("Progress series")
	return append([]Record{}, series...)
}

// ProgressStats returns average, highest and best month for subject.
func (c *Cache) ProgressStats(subject string) Stats {
	key := keyStats + subject
	if v, ok := c.store.Get(key); ok {
		if s, ok := v.(Stats); ok {
			return s
		}
	}

	stats := computeStats(c.SubjectProgress(subject))
	c.put(key, stats, c.opts.StatsTTL, subject)
	return stats
}

// TopSubject returns the subject with the highest average progress.
func (c *Cache) TopSubject() string {
	if v, ok := c.store.Get(keyTopSubject); ok {
		if s, ok := v.(TopSubject); ok {
			return string(s)
		}
	}

	top := topSubject(c.data, c.opts.DefaultSubject)
	c.store.SetWithTTL(keyTopSubject, TopSubject(top), c.opts.TopSubjectTTL)
	return top
}

// Insights returns cached insight text for subject.
func (c *Cache) Insights(subject string) (string, bool) {
	v, ok := c.store.Get(keyInsights + subject)
	if !ok {
		return "", false
	}
	text, ok := v.(Insight)
	return string(text), ok
}

// SetInsights caches externally generated insight text for subject.
func (c *Cache) SetInsights(subject, text string) {
	c.put(keyInsights+subject, Insight(text), c.opts.InsightTTL, subject)
}

// InvalidateSubject drops every entry derived from subject, including the
// aggregate series and the top subject. Returns the number of entries removed.
func (c *Cache) InvalidateSubject(subject string) int {
	removed := 0
	for _, key := range c.index.take(subject) {
		if c.store.Delete(key) {
			removed++
		}
		c.index.forget(key)
	}
	if c.store.Delete(keyTopSubject) {
		removed++
	}

	c.logger.Debug().Str("subject", subject).Int("removed", removed).Msg("Invalidated subject")
	return removed
}

// Warm computes and caches series and stats for every subject and the
// aggregate, then the top subject.
func (c *Cache) Warm(ctx context.Context) error {
	subjects := append(c.data.IDs(), AllSubjects)
	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("warm progress: %w", err)
		}
		c.SubjectProgress(subject)
		c.ProgressStats(subject)
	}
	c.TopSubject()

	c.logger.Info().Int("subjects", len(subjects)).Msg("Progress cache warmed")
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Clear()
	c.index.reset()
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
