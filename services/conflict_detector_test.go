package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical windows", "15:00", "16:00", "15:00", "16:00", true},
		{"contained window", "15:00", "17:00", "15:30", "16:30", true},
		{"partial overlap at start", "15:00", "16:00", "15:30", "16:30", true},
		{"partial overlap at end", "15:30", "16:30", "15:00", "16:00", true},
		{"touching endpoints do not conflict", "15:00", "16:00", "16:00", "17:00", false},
		{"touching endpoints reversed", "16:00", "17:00", "15:00", "16:00", false},
		{"disjoint windows", "09:00", "10:00", "14:00", "15:00", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Overlaps(mustClock(tc.aStart), mustClock(tc.aEnd), mustClock(tc.bStart), mustClock(tc.bEnd))
			if got != tc.want {
				t.Fatalf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestConflictDetector_HasConflict(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tutorID := seedTutor(store, "40.00")
	studentID := seedStudent(store)
	date := mustDate("2026-03-16")

	existing := models.Booking{
		ID: uuid.New(), StudentID: studentID, TutorID: tutorID,
		BookingDate: date, StartMinute: mustClock("15:00"), EndMinute: mustClock("16:00"),
		Status: models.StatusPending,
	}
	store.booked[existing.ID] = existing

	detector := NewConflictDetector(store)
	ctx := context.Background()

	t.Run("overlap with active booking conflicts", func(t *testing.T) {
		conflict, err := detector.HasConflict(ctx, tutorID, date, mustClock("15:30"), mustClock("16:30"), nil)
		if err != nil {
			t.Fatalf("HasConflict failed: %v", err)
		}
		if !conflict {
			t.Fatal("expected conflict with pending booking")
		}
	})

	t.Run("other date does not conflict", func(t *testing.T) {
		conflict, err := detector.HasConflict(ctx, tutorID, mustDate("2026-03-17"), mustClock("15:30"), mustClock("16:30"), nil)
		if err != nil {
			t.Fatalf("HasConflict failed: %v", err)
		}
		if conflict {
			t.Fatal("expected no conflict on a different date")
		}
	})

	t.Run("excluded booking is ignored", func(t *testing.T) {
		conflict, err := detector.HasConflict(ctx, tutorID, date, mustClock("15:00"), mustClock("16:00"), &existing.ID)
		if err != nil {
			t.Fatalf("HasConflict failed: %v", err)
		}
		if conflict {
			t.Fatal("expected no conflict when the overlapping booking is excluded")
		}
	})

	t.Run("terminal statuses do not conflict", func(t *testing.T) {
		cancelled := existing
		cancelled.ID = uuid.New()
		cancelled.StartMinute = mustClock("17:00")
		cancelled.EndMinute = mustClock("18:00")
		cancelled.Status = models.StatusCancelled
		store.booked[cancelled.ID] = cancelled

		conflict, err := detector.HasConflict(ctx, tutorID, date, mustClock("17:00"), mustClock("18:00"), nil)
		if err != nil {
			t.Fatalf("HasConflict failed: %v", err)
		}
		if conflict {
			t.Fatal("cancelled bookings must not block the window")
		}
	})
}

func TestConflictDetector_CheckBookable(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tutorID := seedTutor(store, "40.00")
	studentID := seedStudent(store)
	// Monday 15:00-17:00.
	seedSlot(store, tutorID, time.Monday, mustClock("15:00"), mustClock("17:00"))

	detector := NewConflictDetector(store)
	ctx := context.Background()
	monday := mustDate("2026-03-16")

	t.Run("window inside availability is bookable", func(t *testing.T) {
		if err := detector.CheckBookable(ctx, tutorID, monday, mustClock("15:00"), mustClock("16:00"), nil); err != nil {
			t.Fatalf("CheckBookable failed: %v", err)
		}
	})

	t.Run("window outside availability is a distinct rejection", func(t *testing.T) {
		err := detector.CheckBookable(ctx, tutorID, monday, mustClock("18:00"), mustClock("19:00"), nil)
		if err != ErrOutsideAvailability {
			t.Fatalf("expected ErrOutsideAvailability, got %v", err)
		}
	})

	t.Run("window straddling the slot edge is outside availability", func(t *testing.T) {
		err := detector.CheckBookable(ctx, tutorID, monday, mustClock("16:30"), mustClock("17:30"), nil)
		if err != ErrOutsideAvailability {
			t.Fatalf("expected ErrOutsideAvailability, got %v", err)
		}
	})

	t.Run("wrong weekday is outside availability", func(t *testing.T) {
		tuesday := mustDate("2026-03-17")
		err := detector.CheckBookable(ctx, tutorID, tuesday, mustClock("15:00"), mustClock("16:00"), nil)
		if err != ErrOutsideAvailability {
			t.Fatalf("expected ErrOutsideAvailability, got %v", err)
		}
	})

	t.Run("occupied window is a double-booking rejection", func(t *testing.T) {
		booking := models.Booking{
			ID: uuid.New(), StudentID: studentID, TutorID: tutorID,
			BookingDate: monday, StartMinute: mustClock("15:00"), EndMinute: mustClock("16:00"),
			Status: models.StatusScheduled,
		}
		store.booked[booking.ID] = booking

		err := detector.CheckBookable(ctx, tutorID, monday, mustClock("15:30"), mustClock("16:30"), nil)
		if err != ErrSlotUnavailable {
			t.Fatalf("expected ErrSlotUnavailable, got %v", err)
		}
	})
}
