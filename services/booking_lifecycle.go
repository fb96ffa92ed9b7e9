package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/repository"
)

// RespondAction is the tutor's decision on a pending or reschedule-pending
// booking.
type RespondAction string

const (
	ActionAccept  RespondAction = "accept"
	ActionDecline RespondAction = "decline"
)

// CreateRequestParams carries everything a student submits for a new
// booking request.
type CreateRequestParams struct {
	StudentID      uuid.UUID
	TutorID        uuid.UUID
	Date           models.LocalDate
	Start          models.MinuteOfDay
	End            models.MinuteOfDay
	Subject        string
	MeetingType    models.MeetingType
	LocationOrLink string
	Notes          string
}

// BookingLifecycle drives a booking through its state machine. It is the
// only writer of booking status. Every transition runs as one transaction:
// the read, the check and the write commit together or not at all.
type BookingLifecycle struct {
	store    repository.Store
	detector *ConflictDetector
	now      func() time.Time
}

// NewBookingLifecycle wires the lifecycle. now may be nil, in which case
// time.Now is used; tests inject a fixed clock.
func NewBookingLifecycle(store repository.Store, detector *ConflictDetector, now func() time.Time) *BookingLifecycle {
	if now == nil {
		now = time.Now
	}
	return &BookingLifecycle{store: store, detector: detector, now: now}
}

// CreateRequest validates the window, snapshots the tutor's rate, and
// inserts a pending booking. The conflict check and the insert share one
// transaction that locks the tutor's active bookings for the date, so two
// concurrent requests for overlapping windows serialize; the exclusion
// constraint on the bookings table rejects anything that still slips
// through.
func (l *BookingLifecycle) CreateRequest(ctx context.Context, p CreateRequestParams) (*models.Booking, error) {
	if err := l.validateCreate(p); err != nil {
		return nil, err
	}

	student, err := l.store.Accounts().GetUser(ctx, p.StudentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, ErrAccountSuspended
	}

	tutor, err := l.store.Accounts().GetActiveTutor(ctx, p.TutorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	inside, err := l.detector.WithinAvailability(ctx, p.TutorID, p.Date, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	if !inside {
		return nil, ErrOutsideAvailability
	}

	booking := &models.Booking{
		StudentID:       p.StudentID,
		TutorID:         p.TutorID,
		BookingDate:     p.Date,
		StartMinute:     p.Start,
		EndMinute:       p.End,
		DurationMinutes: int(p.End - p.Start),
		Subject:         p.Subject,
		MeetingType:     p.MeetingType,
		HourlyRate:      tutor.HourlyRate,
		TotalAmount:     models.SessionAmount(tutor.HourlyRate, p.Start, p.End),
		Status:          models.StatusPending,
	}
	if p.LocationOrLink != "" {
		booking.LocationOrLink = &p.LocationOrLink
	}
	if p.Notes != "" {
		booking.StudentNotes = &p.Notes
	}

	err = l.store.InTx(ctx, func(tx repository.Store) error {
		active, err := tx.Bookings().LockActiveForDate(ctx, p.TutorID, p.Date)
		if err != nil {
			return err
		}
		if ConflictsAny(active, p.Start, p.End, nil) {
			return ErrSlotUnavailable
		}
		return tx.Bookings().Create(ctx, booking)
	})
	if repository.IsExclusionViolation(err) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Respond resolves a pending or reschedule-pending booking. Accepting
// re-runs the conflict check under the same locks that CreateRequest takes,
// excluding the booking itself, to guard against windows booked since the
// request was made.
func (l *BookingLifecycle) Respond(ctx context.Context, tutorID, bookingID uuid.UUID, action RespondAction, message string) (*models.Booking, error) {
	if action != ActionAccept && action != ActionDecline {
		v := &ValidationError{}
		v.add("action", "action must be accept or decline")
		return nil, v
	}

	var booking *models.Booking
	err := l.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = l.ownedByTutor(ctx, tx, tutorID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status.Terminal() || !booking.Status.AwaitingTutor() {
			return ErrAlreadyProcessed
		}

		tutor, err := tx.Accounts().GetUser(ctx, tutorID)
		if err != nil {
			return err
		}
		if !tutor.IsActive {
			return ErrAccountSuspended
		}

		target := models.StatusRejected
		if action == ActionAccept {
			active, err := tx.Bookings().LockActiveForDate(ctx, booking.TutorID, booking.BookingDate)
			if err != nil {
				return err
			}
			if ConflictsAny(active, booking.StartMinute, booking.EndMinute, &booking.ID) {
				return ErrSlotUnavailable
			}
			target = models.StatusScheduled
		}
		if !booking.Status.CanTransitionTo(target) {
			return ErrInvalidState
		}

		now := l.now()
		booking.Status = target
		booking.RespondedAt = &now
		if message != "" {
			booking.TutorResponseMessage = &message
		}
		return tx.Bookings().Update(ctx, booking)
	})
	if repository.IsExclusionViolation(err) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// RequestReschedule moves an active booking to a new window pending fresh
// tutor approval. Conflicts are deliberately not validated here; the
// accept path re-checks against whatever exists at that moment.
func (l *BookingLifecycle) RequestReschedule(ctx context.Context, studentID, bookingID uuid.UUID, newDate models.LocalDate, newStart, newEnd models.MinuteOfDay, reason string) (*models.Booking, error) {
	v := &ValidationError{}
	validateWindow(v, newStart, newEnd)
	if newDate.IsZero() {
		v.add("booking_date", "date is required")
	} else if newDate.Before(models.DateOf(l.now())) {
		v.add("booking_date", "date cannot be in the past")
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	var booking *models.Booking
	err := l.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = getBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if booking.StudentID != studentID {
			return ErrForbidden
		}
		if booking.Status.Terminal() {
			return ErrAlreadyProcessed
		}
		if !booking.Status.CanTransitionTo(models.StatusReschedulePending) {
			return ErrInvalidState
		}

		booking.BookingDate = newDate
		booking.StartMinute = newStart
		booking.EndMinute = newEnd
		booking.DurationMinutes = int(newEnd - newStart)
		// The rate stays the creation-time snapshot; only the amount follows
		// the new duration.
		booking.TotalAmount = models.SessionAmount(booking.HourlyRate, newStart, newEnd)
		booking.Status = models.StatusReschedulePending
		if reason != "" {
			booking.StudentNotes = &reason
		}
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel ends a pending or scheduled booking. Either participant may
// cancel; the reason lands on the cancelling side's notes field.
func (l *BookingLifecycle) Cancel(ctx context.Context, actorID, bookingID uuid.UUID, reason string) (*models.Booking, error) {
	var booking *models.Booking
	err := l.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = getBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.Participant(actorID) {
			return ErrForbidden
		}
		if booking.Status.Terminal() {
			return ErrAlreadyProcessed
		}
		if booking.Status != models.StatusPending && booking.Status != models.StatusScheduled {
			return ErrInvalidState
		}

		booking.Status = models.StatusCancelled
		if reason != "" {
			if actorID == booking.StudentID {
				booking.StudentNotes = &reason
			} else {
				booking.TutorResponseMessage = &reason
			}
		}
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// MarkComplete finishes a scheduled session strictly after its end time.
// Either participant may call it; the completion sweep uses the same
// transition.
func (l *BookingLifecycle) MarkComplete(ctx context.Context, actorID, bookingID uuid.UUID, notes string) (*models.Booking, error) {
	var booking *models.Booking
	err := l.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = getBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.Participant(actorID) {
			return ErrForbidden
		}
		if booking.Status == models.StatusCompleted {
			return ErrAlreadyProcessed
		}
		if booking.Status != models.StatusScheduled {
			return ErrInvalidState
		}
		now := l.now()
		if now.Before(booking.EndsAt()) {
			return ErrTooEarly
		}

		booking.Status = models.StatusCompleted
		booking.CompletedAt = &now
		if notes != "" {
			if actorID == booking.TutorID {
				booking.TutorResponseMessage = &notes
			} else {
				booking.StudentNotes = &notes
			}
		}
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// SweepCompletions completes scheduled sessions whose end time elapsed at
// least grace ago, leaving a window for the parties to complete manually
// with notes first. Returns the number of bookings completed.
func (l *BookingLifecycle) SweepCompletions(ctx context.Context, grace time.Duration) (int, error) {
	now := l.now()
	ended, err := l.store.Bookings().ListScheduledEndedBefore(ctx, now.Add(-grace))
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range ended {
		booking := ended[i]
		err := l.store.InTx(ctx, func(tx repository.Store) error {
			current, err := getBooking(ctx, tx, booking.ID)
			if err != nil {
				return err
			}
			if current.Status != models.StatusScheduled {
				// A participant beat the sweep to it.
				return nil
			}
			current.Status = models.StatusCompleted
			current.CompletedAt = &now
			return tx.Bookings().Update(ctx, current)
		})
		if err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

// GetBooking returns a booking to one of its participants.
func (l *BookingLifecycle) GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := getBooking(ctx, l.store, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Participant(actorID) {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (l *BookingLifecycle) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Booking, error) {
	return l.store.Bookings().ListByStudent(ctx, studentID)
}

func (l *BookingLifecycle) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	return l.store.Bookings().ListByTutor(ctx, tutorID)
}

// ListAwaitingTutor returns the tutor's open requests: pending bookings and
// reschedules waiting on a decision.
func (l *BookingLifecycle) ListAwaitingTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	return l.store.Bookings().ListAwaitingTutor(ctx, tutorID)
}

func (l *BookingLifecycle) validateCreate(p CreateRequestParams) error {
	v := &ValidationError{}
	validateWindow(v, p.Start, p.End)
	if p.Date.IsZero() {
		v.add("booking_date", "date is required")
	} else if p.Date.Before(models.DateOf(l.now())) {
		v.add("booking_date", "date cannot be in the past")
	}
	if p.Subject == "" {
		v.add("subject", "subject is required")
	}
	if !p.MeetingType.Valid() {
		v.add("meeting_type", "meeting type must be virtual or in_person")
	}
	if p.MeetingType == models.MeetingInPerson && p.LocationOrLink == "" {
		v.add("location_or_link", "location is required for in-person sessions")
	}
	if p.StudentID == p.TutorID {
		v.add("tutor_id", "students cannot book themselves")
	}
	return v.errOrNil()
}

func (l *BookingLifecycle) ownedByTutor(ctx context.Context, tx repository.Store, tutorID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := getBooking(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TutorID != tutorID {
		return nil, ErrForbidden
	}
	return booking, nil
}

func getBooking(ctx context.Context, store repository.Store, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := store.Bookings().Get(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}
