// Package repository is the only layer that talks to the database. Every
// component receives a Store by constructor; nothing reaches for a global
// connection. InTx hands callers a Store bound to one transaction so that
// read-check-write sequences commit or fail as a unit.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anjiri1684/tutor_marketplace/models"
)

// AccountRepository resolves accounts and tutor profiles. Account and
// profile management live in another service; the booking engine only
// reads, except for the tutor rating rollup owned by reviews.
type AccountRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetActiveTutor(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error)
	UpdateTutorRating(ctx context.Context, tutorID uuid.UUID, avg float64) error
}

// AvailabilityRepository stores the recurring weekly template.
type AvailabilityRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.AvailabilitySlot, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.AvailabilitySlot, error)
	ListActiveByTutorDay(ctx context.Context, tutorID uuid.UUID, day time.Weekday) ([]models.AvailabilitySlot, error)
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	Update(ctx context.Context, slot *models.AvailabilitySlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceForTutor deletes the tutor's whole template and inserts the
	// given slots. Call inside InTx.
	ReplaceForTutor(ctx context.Context, tutorID uuid.UUID, slots []models.AvailabilitySlot) error
}

// BookingRepository stores bookings. Status is only ever written through
// the lifecycle service.
type BookingRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, b *models.Booking) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Booking, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error)
	ListAwaitingTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error)
	ListCompletedByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error)
	ListCompletedWithoutReview(ctx context.Context, studentID uuid.UUID) ([]models.Booking, error)
	// ActiveOverlapping returns active-status bookings for tutorID on date
	// whose [start,end) window overlaps the given one, optionally skipping
	// one booking id (the booking being rescheduled).
	ActiveOverlapping(ctx context.Context, tutorID uuid.UUID, date models.LocalDate, start, end models.MinuteOfDay, exclude *uuid.UUID) ([]models.Booking, error)
	// LockActiveForDate takes FOR UPDATE locks on the tutor's active
	// bookings for the date, serializing concurrent create/accept attempts
	// on the same calendar day. Only meaningful inside InTx.
	LockActiveForDate(ctx context.Context, tutorID uuid.UUID, date models.LocalDate) ([]models.Booking, error)
	// ListScheduledEndedBefore returns scheduled bookings whose end time is
	// at or before the given cutoff, for the completion sweep.
	ListScheduledEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}

// ReviewRepository stores reviews; uniqueness per booking is enforced by
// the booking_id unique index.
type ReviewRepository interface {
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	Create(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, r *models.Review) error
	AverageForTutor(ctx context.Context, tutorID uuid.UUID) (float64, error)
}

// Store aggregates the repositories and provides transactions.
type Store interface {
	Accounts() AccountRepository
	Availability() AvailabilityRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository
	// InTx runs fn with a Store bound to a single database transaction.
	// Returning an error rolls everything back.
	InTx(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given GORM connection.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Accounts() AccountRepository          { return &accountRepo{db: s.db} }
func (s *gormStore) Availability() AvailabilityRepository { return &availabilityRepo{db: s.db} }
func (s *gormStore) Bookings() BookingRepository          { return &bookingRepo{db: s.db} }
func (s *gormStore) Reviews() ReviewRepository            { return &reviewRepo{db: s.db} }

func (s *gormStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
