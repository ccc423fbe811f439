// Package testutil provides testing utilities for the cache packages.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Sternrassler/edu-cache/pkg/dashboard"
)

// ErrFakeNotFound is returned for users or subjects the fake does not know.
var ErrFakeNotFound = errors.New("fake source: not found")

// FakeSource is an in-memory dashboard data source for tests.
type FakeSource struct {
	mu        sync.RWMutex
	summaries map[string]dashboard.Summary
	subjects  map[string]map[string]dashboard.SubjectData
	failures  map[string]error

	// Delay is applied to every call before it returns
	Delay time.Duration

	// Tracking
	UsersCalls   int
	SummaryCalls int
	SubjectCalls int
}

// NewFakeSource creates an empty fake source.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		summaries: make(map[string]dashboard.Summary),
		subjects:  make(map[string]map[string]dashboard.SubjectData),
		failures:  make(map[string]error),
	}
}

// AddUser stores a summary and the given subjects (progress 50 each) for userID.
func (f *FakeSource) AddUser(userID string, subjects ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.summaries[userID] = dashboard.Summary{
		UserID:           userID,
		CompletedLessons: len(subjects) * 4,
		Subjects:         subjects,
	}
	if f.subjects[userID] == nil {
		f.subjects[userID] = make(map[string]dashboard.SubjectData)
	}
	for _, s := range subjects {
		f.subjects[userID][s] = dashboard.SubjectData{Subject: s, Progress: 50}
	}
}

// FailUser makes every call for userID return err. A nil err clears the failure.
func (f *FakeSource) FailUser(userID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, userID)
		return
	}
	f.failures[userID] = err
}

// FailUsers makes Users return err.
func (f *FakeSource) FailUsers(err error) {
	f.FailUser("", err)
}

func (f *FakeSource) wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(f.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Users returns every known user ID, sorted.
func (f *FakeSource) Users(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.UsersCalls++
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.failures[""]; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(f.summaries))
	for id := range f.summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Summary returns the stored summary of userID.
func (f *FakeSource) Summary(ctx context.Context, userID string) (dashboard.Summary, error) {
	f.mu.Lock()
	f.SummaryCalls++
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return dashboard.Summary{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.failures[userID]; err != nil {
		return dashboard.Summary{}, err
	}
	s, ok := f.summaries[userID]
	if !ok {
		return dashboard.Summary{}, fmt.Errorf("%w: user %s", ErrFakeNotFound, userID)
	}
	return s, nil
}

// Subjects returns the subjects of userID, sorted.
func (f *FakeSource) Subjects(ctx context.Context, userID string) ([]string, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.failures[userID]; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.subjects[userID]))
	for name := range f.subjects[userID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Subject returns the stored subject data of userID.
func (f *FakeSource) Subject(ctx context.Context, userID, subject string) (dashboard.SubjectData, error) {
	f.mu.Lock()
	f.SubjectCalls++
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return dashboard.SubjectData{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.failures[userID]; err != nil {
		return dashboard.SubjectData{}, err
	}
	d, ok := f.subjects[userID][subject]
	if !ok {
		return dashboard.SubjectData{}, fmt.Errorf("%w: subject %s of %s", ErrFakeNotFound, subject, userID)
	}
	return d, nil
}

// Counts returns the Users, Summary and Subject call counts.
func (f *FakeSource) Counts() (users, summary, subject int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.UsersCalls, f.SummaryCalls, f.SubjectCalls
}

// Reset clears all tracking counters.
func (f *FakeSource) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UsersCalls = 0
	f.SummaryCalls = 0
	f.SubjectCalls = 0
}
