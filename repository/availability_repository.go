package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anjiri1684/tutor_marketplace/models"
)

type availabilityRepo struct {
	db *gorm.DB
}

func (r *availabilityRepo) Get(ctx context.Context, id uuid.UUID) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &slot, nil
}

func (r *availabilityRepo) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("day_of_week asc, start_minute asc").
		Find(&slots).Error
	return slots, err
}

func (r *availabilityRepo) ListActiveByTutorDay(ctx context.Context, tutorID uuid.UUID, day time.Weekday) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND day_of_week = ? AND is_available = ?", tutorID, day, true).
		Order("start_minute asc").
		Find(&slots).Error
	return slots, err
}

func (r *availabilityRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *availabilityRepo) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *availabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.AvailabilitySlot{}, "id = ?", id).Error
}

func (r *availabilityRepo) ReplaceForTutor(ctx context.Context, tutorID uuid.UUID, slots []models.AvailabilitySlot) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&models.AvailabilitySlot{}, "tutor_id = ?", tutorID).Error; err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}
	return db.Create(&slots).Error
}
