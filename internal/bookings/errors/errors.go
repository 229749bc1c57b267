package errors

import (
	"errors"
	"fmt"
	"strings"

	"camrent/pkg/model"
)

var (
	ErrNotFound = errors.New("not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrInvalidRange = model.ErrInvalidRange

	ErrNoPricingConfigured = errors.New("item has no pricing tiers configured")

	ErrNoTierForDuration = errors.New("no pricing tier covers the rental duration")

	ErrBookingConflict = errors.New("booking dates conflict with a committed booking")

	ErrIllegalTransition = errors.New("illegal transition")

	ErrLockHeld = errors.New("item is being booked by another request")

	ErrLockLost = errors.New("item lock expired before the booking was committed")

	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError carries the committed bookings that overlap the candidate
// range. It matches ErrBookingConflict.
type ConflictError struct {
	Conflicts []*model.Booking
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, b := range e.Conflicts {
		ids = append(ids, b.ID)
	}
	return fmt.Sprintf("%s: %s", ErrBookingConflict, strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrBookingConflict
}

// IllegalTransitionError reports a failed guard. From is the state the
// entity was in, e.g. "confirmed/ready_to_ship" or "extension:pending".
type IllegalTransitionError struct {
	From string
	Op   string
}

func IllegalTransition(from, op string) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, Op: op}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s not allowed from %s", ErrIllegalTransition, e.Op, e.From)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ValidationError lists field problems. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
