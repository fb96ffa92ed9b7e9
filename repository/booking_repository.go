package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anjiri1684/tutor_marketplace/models"
)

type bookingRepo struct {
	db *gorm.DB
}

func (r *bookingRepo) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookingRepo) Update(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *bookingRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("booking_date desc, start_minute desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("booking_date desc, start_minute desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListAwaitingTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND status IN ?", tutorID,
			[]models.BookingStatus{models.StatusPending, models.StatusReschedulePending}).
		Order("booking_date asc, start_minute asc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListCompletedByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND status = ?", tutorID, models.StatusCompleted).
		Order("booking_date asc, start_minute asc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListCompletedWithoutReview(ctx context.Context, studentID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN reviews ON reviews.booking_id = bookings.id").
		Where("bookings.student_id = ? AND bookings.status = ? AND reviews.id IS NULL",
			studentID, models.StatusCompleted).
		Order("bookings.booking_date desc, bookings.start_minute desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ActiveOverlapping(ctx context.Context, tutorID uuid.UUID, date models.LocalDate, start, end models.MinuteOfDay, exclude *uuid.UUID) ([]models.Booking, error) {
	// Half-open overlap: existing.start < end AND existing.end > start.
	query := r.db.WithContext(ctx).
		Where("tutor_id = ? AND booking_date = ? AND status IN ?", tutorID, date, models.ActiveStatuses).
		Where("start_minute < ? AND end_minute > ?", end, start)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var bookings []models.Booking
	err := query.Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) LockActiveForDate(ctx context.Context, tutorID uuid.UUID, date models.LocalDate) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tutor_id = ? AND booking_date = ? AND status IN ?", tutorID, date, models.ActiveStatuses).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListScheduledEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	date := models.DateOf(cutoff)
	minute := models.MinuteOfDay(cutoff.Hour()*60 + cutoff.Minute())

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusScheduled).
		Where("booking_date < ? OR (booking_date = ? AND end_minute <= ?)", date, date, minute).
		Find(&bookings).Error
	return bookings, err
}
