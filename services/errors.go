package services

import "errors"

// Domain errors surfaced by the booking engine. Handlers map these onto
// HTTP statuses; nothing below this layer knows about HTTP.
var (
	// ErrSlotUnavailable is returned when the requested window overlaps an
	// active booking for the tutor (double booking).
	ErrSlotUnavailable = errors.New("services: time slot is no longer available")
	// ErrOutsideAvailability is returned when the requested window does not
	// fall inside any of the tutor's available weekly slots.
	ErrOutsideAvailability = errors.New("services: requested time is outside the tutor's availability")
	// ErrAlreadyProcessed is returned when a transition targets a booking
	// that has already been resolved.
	ErrAlreadyProcessed = errors.New("services: booking has already been processed")
	// ErrInvalidState is returned when the booking's current status does not
	// permit the requested transition.
	ErrInvalidState = errors.New("services: operation not allowed in current booking state")
	// ErrTooEarly is returned when completion is attempted before the
	// session end time has passed.
	ErrTooEarly = errors.New("services: session has not ended yet")
	// ErrAlreadyReviewed is returned when a booking already has a review.
	ErrAlreadyReviewed = errors.New("services: booking has already been reviewed")
	// ErrNotCompleted is returned when a review targets a booking that is
	// not completed.
	ErrNotCompleted = errors.New("services: booking is not completed")
	// ErrNotFound is returned when the booking, slot or account does not exist.
	ErrNotFound = errors.New("services: not found")
	// ErrForbidden is returned when the actor does not own the row.
	ErrForbidden = errors.New("services: forbidden")
	// ErrAccountSuspended is returned when a suspended account attempts to
	// create or resolve bookings.
	ErrAccountSuspended = errors.New("services: account is suspended")
)

// ValidationError carries field level validation issues that callers can
// surface to users. It is never retried automatically.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	return "validation failed"
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// errOrNil collapses an empty ValidationError to nil so callers can return
// the result of a validate step directly.
func (v *ValidationError) errOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
