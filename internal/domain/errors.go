package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers map these to HTTP status codes without
// knowing anything about transition logic.
var (
	ErrNotFound                 = errors.New("not found")
	ErrInvalidRange             = errors.New("invalid date range")
	ErrAvailabilityConflict     = errors.New("dates are not available")
	ErrAlreadyBlocked           = errors.New("dates already blocked")
	ErrInvalidTransition        = errors.New("invalid state transition")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	ErrConflict                 = errors.New("conflict")
	ErrValidation               = errors.New("validation failed")
)

// DomainError carries a sentinel kind plus a human-readable message.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// NewNotFoundError reports a missing entity reference.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// NewInvalidRangeError reports a malformed or non-positive date range.
func NewInvalidRangeError(msg string) *DomainError {
	return &DomainError{Err: ErrInvalidRange, Message: msg}
}

// NewAvailabilityConflictError reports an overlap with an existing booking.
func NewAvailabilityConflictError(msg string) *DomainError {
	return &DomainError{Err: ErrAvailabilityConflict, Message: msg}
}

// NewAlreadyBlockedError reports ledger contention on one or more dates.
func NewAlreadyBlockedError(msg string) *DomainError {
	return &DomainError{Err: ErrAlreadyBlocked, Message: msg}
}

// NewInvalidTransitionError reports an illegal state machine transition.
func NewInvalidTransitionError(from, to string) *DomainError {
	return &DomainError{
		Err:     ErrInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewCancellationWindowClosedError reports a cancellation attempted too close
// to the start date.
func NewCancellationWindowClosedError(msg string) *DomainError {
	return &DomainError{Err: ErrCancellationWindowClosed, Message: msg}
}

// NewConflictError reports contention detected by optimistic locking or a
// uniqueness constraint.
func NewConflictError(msg string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: msg}
}

// NewValidationError reports invalid input.
func NewValidationError(msg string) *DomainError {
	return &DomainError{Err: ErrValidation, Message: msg}
}
