package preload

import (
	"fmt"
	"strings"
)

// Priority orders strategies. Higher values run first.
type Priority int

const (
	Low Priority = iota + 1
	Medium
	High
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid reports whether p is one of Low, Medium or High.
func (p Priority) Valid() bool {
	return p >= Low && p <= High
}

// ParsePriority converts "low", "medium" or "high" (any case) to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}
