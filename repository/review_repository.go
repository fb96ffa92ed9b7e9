package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anjiri1684/tutor_marketplace/models"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "booking_id = ?", bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepo) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Select("id").First(&review, "booking_id = ?", bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepo) AverageForTutor(ctx context.Context, tutorID uuid.UUID) (float64, error) {
	var result struct {
		Avg float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("tutor_id = ?", tutorID).
		Select("COALESCE(AVG(rating), 0) as avg").
		Scan(&result).Error
	return result.Avg, err
}
