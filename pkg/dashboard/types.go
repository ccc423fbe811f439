package dashboard

import (
	"slices"
	"time"
)

// Value is a cached dashboard value. The set of implementations is closed.
type Value interface {
	dashboardValue()
}

// Summary is the headline dashboard record of a user.
type Summary struct {
	UserID            string    `json:"user_id"`
	TotalStudyMinutes int       `json:"total_study_minutes"`
	CompletedLessons  int       `json:"completed_lessons"`
	StreakDays        int       `json:"streak_days"`
	AverageScore      float64   `json:"average_score"`
	Subjects          []string  `json:"subjects"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ActivityPoint is one day of study activity.
type ActivityPoint struct {
	Date     string `json:"date"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

// ActivitySeries is a user's activity over time.
type ActivitySeries []ActivityPoint

// Proficiency is the level reached in one subject.
type Proficiency struct {
	Subject string  `json:"subject"`
	Level   string  `json:"level"`
	Score   float64 `json:"score"`
}

// ProficiencyReport is the per-subject proficiency breakdown.
type ProficiencyReport []Proficiency

// Recommendation is a suggested next learning step.
type Recommendation struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

// Recommendations is the list of suggestions for a user.
type Recommendations []Recommendation

// SubjectData is a user's detail view for one subject.
type SubjectData struct {
	Subject          string    `json:"subject"`
	Progress         int       `json:"progress"`
	LessonsCompleted int       `json:"lessons_completed"`
	Topics           []string  `json:"topics"`
	LastStudied      time.Time `json:"last_studied"`
}

// ActivityEvent is one entry of the recent activity feed.
type ActivityEvent struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// RecentActivity is the short-lived activity feed.
type RecentActivity []ActivityEvent

func (Summary) dashboardValue()           {}
func (ActivitySeries) dashboardValue()    {}
func (ProficiencyReport) dashboardValue() {}
func (Recommendations) dashboardValue()   {}
func (SubjectData) dashboardValue()       {}
func (RecentActivity) dashboardValue()    {}

// Copies handed out by the cache so callers never share backing arrays.

func (s Summary) clone() Summary {
	s.Subjects = slices.Clone(s.Subjects)
	return s
}

func (a ActivitySeries) clone() ActivitySeries       { return slices.Clone(a) }
func (p ProficiencyReport) clone() ProficiencyReport { return slices.Clone(p) }
func (r Recommendations) clone() Recommendations     { return slices.Clone(r) }
func (r RecentActivity) clone() RecentActivity       { return slices.Clone(r) }

func (d SubjectData) clone() SubjectData {
	d.Topics = slices.Clone(d.Topics)
	return d
}

// Batch is the combined dashboard view used by BatchGet and BatchSet.
// A nil field means the part is missing (on read) or left untouched (on write).
type Batch struct {
	Summary         *Summary          `json:"summary,omitempty"`
	Activity        ActivitySeries    `json:"activity,omitempty"`
	Proficiency     ProficiencyReport `json:"proficiency,omitempty"`
	Recommendations Recommendations   `json:"recommendations,omitempty"`
}

// Complete reports whether every part of the batch is present.
func (b Batch) Complete() bool {
	return b.Summary != nil && b.Activity != nil && b.Proficiency != nil && b.Recommendations != nil
}

// WarmReport summarises a WarmCache run.
type WarmReport struct {
	Warmed  int `json:"warmed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
