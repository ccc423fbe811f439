package preload

import (
	"errors"
	"fmt"
)

var (
	// ErrDependencyNotMet is returned when a declared dependency has not completed.
	ErrDependencyNotMet = errors.New("dependency not met")

	// ErrTimeout is returned when a loader exceeds its timeout.
	ErrTimeout = errors.New("strategy timed out")

	// ErrUnknownStrategy is returned for an ID that was never registered.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrDependencyCycle is returned for strategies whose dependencies form a cycle.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrInvalidStrategy is returned by Register for a strategy without ID or loader.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrLoaderPanic is returned when a loader panics.
	ErrLoaderPanic = errors.New("loader panicked")
)

// StrategyError ties a failure to the strategy that produced it.
type StrategyError struct {
	ID  string
	Err error
}

// Error implements error interface
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error
func (e *StrategyError) Unwrap() error {
	return e.Err
}
