package app

import (
	"bytes"
	"context"
	"slices"

	"github.com/Sternrassler/edu-cache/pkg/progress"
	"github.com/goccy/go-json"
)

// Chart is the render-ready progress chart of one subject, held in the
// component cache.
type Chart struct {
	Subject string         `json:"subject"`
	Months  []string       `json:"months"`
	Values  []int          `json:"values"`
	Stats   progress.Stats `json:"stats"`
}

func chartKey(subject string) string {
	return "chart_" + subject
}

func progressResponseKey(subject string) string {
	return "progress_" + subject
}

// Chart returns the chart of subject, building it from the progress cache on
// a miss. The result is a copy owned by the caller.
func (a *App) Chart(ctx context.Context, subject string) (Chart, error) {
	chart, err := a.Component.GetOrSet(ctx, chartKey(subject), func(ctx context.Context) (Chart, error) {
		series := a.Progress.SubjectProgress(subject)
		c := Chart{
			Subject: subject,
			Months:  make([]string, 0, len(series)),
			Values:  make([]int, 0, len(series)),
			Stats:   a.Progress.ProgressStats(subject),
		}
		for _, r := range series {
			c.Months = append(c.Months, r.Month)
			c.Values = append(c.Values, r.Progress)
		}
		return c, nil
	})
	if err != nil {
		return Chart{}, err
	}

	chart.Months = slices.Clone(chart.Months)
	chart.Values = slices.Clone(chart.Values)
	return chart, nil
}

// ProgressResponse returns the encoded chart of subject from the api cache.
func (a *App) ProgressResponse(ctx context.Context, subject string) ([]byte, error) {
	body, err := a.API.GetOrSet(ctx, progressResponseKey(subject), func(ctx context.Context) ([]byte, error) {
		chart, err := a.Chart(ctx, subject)
		if err != nil {
			return nil, err
		}
		return json.Marshal(chart)
	})
	if err != nil {
		return nil, err
	}
	return bytes.Clone(body), nil
}

// InvalidateSubject drops the progress entries of subject and every chart
// and response built from them, including the aggregate. It returns the
// number of progress entries and of derived views removed.
func (a *App) InvalidateSubject(subject string) (entries, views int) {
	entries = a.Progress.InvalidateSubject(subject)

	for _, s := range []string{subject, progress.AllSubjects} {
		if a.Component.Delete(chartKey(s)) {
			views++
		}
		if a.API.Delete(progressResponseKey(s)) {
			views++
		}
	}

	a.logger.Debug().Str("subject", subject).Int("removed", entries).Int("views", views).Msg("Invalidated subject views")
	return entries, views
}
