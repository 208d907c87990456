// Package model defines the core domain entities for the dispatch service.
package model

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Callers match with errors.Is.
var (
	// ErrValidation is returned when input is malformed. No reservation is made.
	ErrValidation = errors.New("validation error")
	// ErrInvalidSchedule is a validation error raised for malformed route schedules.
	ErrInvalidSchedule = fmt.Errorf("invalid schedule: %w", ErrValidation)
	// ErrNoCapacity is returned when a trip instance cannot hold the requested space.
	ErrNoCapacity = errors.New("no capacity")
	// ErrUnschedulable is returned when no feasible train/truck pair exists in the horizon.
	ErrUnschedulable = errors.New("unschedulable")
	// ErrNeedsStaffing is returned when no driver can be bound to a truck trip.
	ErrNeedsStaffing = errors.New("needs staffing")
	// ErrConcurrentConflict is returned when an optimistic write lost a race.
	ErrConcurrentConflict = errors.New("concurrent conflict")
	// ErrInvariantViolation signals a ledger that no longer matches its allocations.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by insert-if-absent operations.
	ErrAlreadyExists = errors.New("already exists")
	// ErrOrderCancelled is returned when work is attempted on a cancelled order.
	ErrOrderCancelled = errors.New("order cancelled")
)

// Error codes reported to clients and in events.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidSchedule    = "INVALID_SCHEDULE"
	CodeNoCapacity         = "NO_CAPACITY"
	CodeUnschedulable      = "UNSCHEDULABLE"
	CodeNeedsStaffing      = "NEEDS_STAFFING"
	CodeConcurrentConflict = "CONCURRENT_CONFLICT"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeOrderCancelled     = "ORDER_CANCELLED"
	CodeInternal           = "INTERNAL"
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
	kind    error
}

// Invalid returns a validation error for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message, kind: ErrValidation}
}

// InvalidSchedule returns a schedule validation error for field.
func InvalidSchedule(field, message string) error {
	return &ValidationError{Field: field, Message: message, kind: ErrInvalidSchedule}
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap exposes the sentinel so errors.Is works.
func (e *ValidationError) Unwrap() error {
	if e.kind == nil {
		return ErrValidation
	}
	return e.kind
}

// Code maps an error to its taxonomy code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSchedule):
		return CodeInvalidSchedule
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNoCapacity):
		return CodeNoCapacity
	case errors.Is(err, ErrUnschedulable):
		return CodeUnschedulable
	case errors.Is(err, ErrNeedsStaffing):
		return CodeNeedsStaffing
	case errors.Is(err, ErrConcurrentConflict):
		return CodeConcurrentConflict
	case errors.Is(err, ErrInvariantViolation):
		return CodeInvariantViolation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrOrderCancelled):
		return CodeOrderCancelled
	default:
		return CodeInternal
	}
}
