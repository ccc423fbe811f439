package dashboard

import (
	"strings"
)

// Category names the kind of dashboard data a key holds.
type Category string

const (
	CategorySummary         Category = "dashboard"
	CategoryActivity        Category = "activity"
	CategoryProficiency     Category = "proficiency"
	CategoryRecommendations Category = "recommendations"
	CategoryRecentActivity  Category = "recent_activity"
	CategorySubject         Category = "subject"
)

// userCategories are the fixed per-user keys removed by InvalidateUserData.
var userCategories = []Category{
	CategorySummary,
	CategoryActivity,
	CategoryProficiency,
	CategoryRecommendations,
	CategoryRecentActivity,
}

// Key identifies a cached dashboard value.
type Key struct {
	// Category is the data kind (e.g., "dashboard", "subject")
	Category Category

	// UserID is the owning user
	UserID string

	// Suffix narrows the key within a user (e.g., the subject name)
	Suffix string
}

// String generates the cache key string.
// Format: {category}_{userId}[_{suffix}]
//
// Example:
//
//	subject_u123_math
func (k Key) String() string {
	parts := []string{string(k.Category), k.UserID}
	if k.Suffix != "" {
		parts = append(parts, k.Suffix)
	}
	return strings.Join(parts, "_")
}

// subjectPrefix returns the prefix shared by every subject key of a user.
func subjectPrefix(userID string) string {
	return Key{Category: CategorySubject, UserID: userID}.String() + "_"
}
