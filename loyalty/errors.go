/*
errors.go - Error taxonomy for the loyalty engine

PURPOSE:
  Two caller-facing error kinds, centralized here:
  1. Validation errors - caller-supplied data violates an entity invariant
  2. Not-found errors  - an operation targets an id absent from a collection

  Storage-level failures are not modeled as a kind of their own; they
  propagate wrapped, except for the settings-read fallback documented in
  settings.go. Empty results ("customer has no sales") are never errors.

USAGE:
  Callers branch with the sentinel helpers:

    if loyalty.IsValidation(err) { ... 400 ... }
    if loyalty.IsNotFound(err)   { ... 404 ... }
*/
package loyalty

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is the sentinel wrapped by every NotFoundError. Store
	// implementations return it directly for unknown ids; the ledger layer
	// wraps it with entity context.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError identifies which field violated which invariant.
// The attempted write is fully rejected; nothing is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifies the entity kind and id that failed to resolve.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid caller input.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
