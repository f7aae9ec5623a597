package serviceerrors

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrContextCanceled  = errors.New("context canceled")
	ErrDeadlineExceeded = errors.New("deadline exceeded")

	ErrValidation       = errors.New("validation failed")
	ErrInsufficientCash = errors.New("cash received is less than the total")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotConfirmed     = errors.New("action was not confirmed")
	ErrInProgress       = errors.New("action already in progress")
	ErrAnonymous        = errors.New("not logged in")
	ErrForbidden        = errors.New("not allowed for this role")

	ErrCategoryNotCreated = errors.New("category was not created")
)

// ValidationError is an input problem with a reason the cashier can act on.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid wraps reason as an ErrValidation.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// FromContext maps context errors to the service sentinels. Anything else
// comes back as nil.
func FromContext(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrDeadlineExceeded
	default:
		return nil
	}
}
