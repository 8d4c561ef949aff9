package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during radar operations.
var (
	// ErrEventClosed indicates that a vote was submitted while the event
	// was not open.
	ErrEventClosed = errors.New("voting event is closed")

	// ErrEventCancelled indicates that the addressed event is soft-cancelled.
	ErrEventCancelled = errors.New("voting event is cancelled")

	// ErrRoundMismatch indicates that a revote transition carried a stale
	// round number and was rejected without mutating state.
	ErrRoundMismatch = errors.New("round does not match current event round")

	// ErrAlreadyVoted indicates that the voter has already voted in the
	// event's current round and did not request an override.
	ErrAlreadyVoted = errors.New("voter has already voted in the current round")

	// ErrRecommendationOwned indicates that a recommendation may only be
	// changed or cleared by its original author.
	ErrRecommendationOwned = errors.New("recommendation belongs to another author")

	// ErrInvalidRing indicates that a vote named a ring outside the fixed
	// four-ring scale.
	ErrInvalidRing = errors.New("invalid ring")
)

// TransitionError represents a rejected state transition or mutation.
// It provides context about which subject and transition caused the error.
type TransitionError struct {
	// Subject identifies the event or technology the transition addressed.
	Subject string

	// Transition names the operation that was attempted.
	Transition string

	// Err is the underlying error that caused the transition to fail.
	Err error
}

// Error implements the error interface for TransitionError.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error: transition=%s, subject=%s, err=%v", e.Transition, e.Subject, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *TransitionError) Unwrap() error { return e.Err }

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
