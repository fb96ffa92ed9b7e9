package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/repository"
)

// Overlaps reports whether two half-open minute windows [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not conflict: a session
// ending at 16:00 and one starting at 16:00 coexist.
func Overlaps(aStart, aEnd, bStart, bEnd models.MinuteOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// ConflictsAny reports whether the window overlaps any of the given
// bookings, optionally skipping one booking id (the booking being
// rescheduled). Used on rows already locked inside a transaction.
func ConflictsAny(bookings []models.Booking, start, end models.MinuteOfDay, exclude *uuid.UUID) bool {
	for i := range bookings {
		if exclude != nil && bookings[i].ID == *exclude {
			continue
		}
		if Overlaps(bookings[i].StartMinute, bookings[i].EndMinute, start, end) {
			return true
		}
	}
	return false
}

// ConflictDetector decides whether a requested window collides with the
// tutor's existing active bookings, and separately whether it falls inside
// the tutor's recurring weekly availability.
type ConflictDetector struct {
	store repository.Store
}

func NewConflictDetector(store repository.Store) *ConflictDetector {
	return &ConflictDetector{store: store}
}

// HasConflict reports whether any booking with an active status occupies a
// window overlapping [start,end) on the given date for the tutor.
func (d *ConflictDetector) HasConflict(ctx context.Context, tutorID uuid.UUID, date models.LocalDate, start, end models.MinuteOfDay, exclude *uuid.UUID) (bool, error) {
	overlapping, err := d.store.Bookings().ActiveOverlapping(ctx, tutorID, date, start, end, exclude)
	if err != nil {
		return false, err
	}
	return len(overlapping) > 0, nil
}

// WithinAvailability reports whether the window fits entirely inside at
// least one available slot of the tutor's weekly template for that weekday.
func (d *ConflictDetector) WithinAvailability(ctx context.Context, tutorID uuid.UUID, date models.LocalDate, start, end models.MinuteOfDay) (bool, error) {
	slots, err := d.store.Availability().ListActiveByTutorDay(ctx, tutorID, date.Weekday())
	if err != nil {
		return false, err
	}
	for i := range slots {
		if start >= slots[i].StartMinute && end <= slots[i].EndMinute {
			return true, nil
		}
	}
	return false, nil
}

// CheckBookable runs both gates and distinguishes the two rejections:
// ErrOutsideAvailability when no weekly slot contains the window,
// ErrSlotUnavailable when an existing booking occupies it.
func (d *ConflictDetector) CheckBookable(ctx context.Context, tutorID uuid.UUID, date models.LocalDate, start, end models.MinuteOfDay, exclude *uuid.UUID) error {
	inside, err := d.WithinAvailability(ctx, tutorID, date, start, end)
	if err != nil {
		return err
	}
	if !inside {
		return ErrOutsideAvailability
	}
	conflict, err := d.HasConflict(ctx, tutorID, date, start, end, exclude)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSlotUnavailable
	}
	return nil
}
