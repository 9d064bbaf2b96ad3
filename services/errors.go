package services

import (
	"errors"
	"fmt"
)

// Error classes surfaced by the audit core. Controllers map these onto HTTP
// statuses in one place; every rejected mutation leaves state untouched.

// ErrNotFound reports a missing entity.
var ErrNotFound = errors.New("not found")

// ErrForbidden reports a failed permission check. Distinct from ErrNotFound
// so callers can deny without claiming the object does not exist.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports a field-level constraint violation. Never applied
// partially; the offending field and constraint are named.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PhaseViolation reports an action attempted outside its required lifecycle
// phase or date window.
type PhaseViolation struct {
	RequiredPhase string
	Message       string
}

func (e *PhaseViolation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("action requires the session to be in the %s phase", e.RequiredPhase)
}

// UnscoredCountError reports a submit attempt with incomplete scores.
type UnscoredCountError struct {
	Count int
}

func (e *UnscoredCountError) Error() string {
	return fmt.Sprintf("%d element(s) have no score yet; all elements must be scored before submitting", e.Count)
}

func notFound(entity string, id int) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
