/*
errors.go - Centralized error types for the ledger engine

ERROR CATEGORIES:
  1. Not-found errors - a mutation or query names an id that does not exist
  2. Validation errors - invalid amounts, references, or enum values

Historically updates of a nonexistent id were a silent no-op; this engine
hardens them into explicit NotFoundError failures for auditability.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is the root of all missing-record failures.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is the root of all invalid-input failures.
	ErrValidation = errors.New("validation failed")

	// ErrNoSnapshot is returned by collaborators when no saved state exists yet.
	ErrNoSnapshot = errors.New("no snapshot available")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "player", "match", "payment"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}

func playerNotFound(id PlayerID) error {
	return &NotFoundError{Kind: "player", ID: string(id)}
}
