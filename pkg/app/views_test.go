package app

import (
	"context"
	"reflect"
	"testing"

	"github.com/Sternrassler/edu-cache/pkg/progress"
	"github.com/goccy/go-json"
)

func TestChart(t *testing.T) {
	a := newTestApp(t, nil, nil)
	ctx := context.Background()

	chart, err := a.Chart(ctx, "math")
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}

	wantMonths := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	wantValues := []int{60, 65, 70, 75, 80, 85}
	if !reflect.DeepEqual(chart.Months, wantMonths) || !reflect.DeepEqual(chart.Values, wantValues) {
		t.Errorf("chart = %+v, want math series", chart)
	}
	if chart.Stats.Highest != 85 || chart.Stats.BestMonth != "Jun" {
		t.Errorf("chart stats = %+v, want highest 85 in Jun", chart.Stats)
	}
	if !a.Component.Has(chartKey("math")) {
		t.Error("chart should be cached in the component cache")
	}

	chart.Values[0] = 999
	again, _ := a.Chart(ctx, "math")
	if again.Values[0] != 60 {
		t.Errorf("cached chart changed by caller: Values[0] = %d", again.Values[0])
	}
}

func TestProgressResponse(t *testing.T) {
	a := newTestApp(t, nil, nil)
	ctx := context.Background()

	body, err := a.ProgressResponse(ctx, progress.AllSubjects)
	if err != nil {
		t.Fatalf("ProgressResponse failed: %v", err)
	}

	var chart Chart
	if err := json.Unmarshal(body, &chart); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if chart.Subject != progress.AllSubjects || len(chart.Months) != 6 {
		t.Errorf("chart = %+v, want six aggregate months", chart)
	}
	if !a.API.Has(progressResponseKey(progress.AllSubjects)) {
		t.Error("response should be cached in the api cache")
	}

	body[0] = 'x'
	again, _ := a.ProgressResponse(ctx, progress.AllSubjects)
	if again[0] != '{' {
		t.Errorf("cached response changed by caller: %q", again[:1])
	}
}

func TestInvalidateSubject_DropsViews(t *testing.T) {
	a := newTestApp(t, nil, nil)
	ctx := context.Background()

	for _, subject := range []string{"math", "science", progress.AllSubjects} {
		if _, err := a.ProgressResponse(ctx, subject); err != nil {
			t.Fatalf("ProgressResponse(%s) failed: %v", subject, err)
		}
	}

	entries, views := a.InvalidateSubject("math")
	if entries == 0 {
		t.Error("progress entries of math should be removed")
	}
	// math and aggregate chart plus their responses
	if views != 4 {
		t.Errorf("views removed = %d, want 4", views)
	}
	if !a.Component.Has(chartKey("science")) || !a.API.Has(progressResponseKey("science")) {
		t.Error("science views must survive invalidation of math")
	}
}
