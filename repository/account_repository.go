package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anjiri1684/tutor_marketplace/models"
)

type accountRepo struct {
	db *gorm.DB
}

func (r *accountRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *accountRepo) GetActiveTutor(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error) {
	var tutor models.TutorProfile
	err := r.db.WithContext(ctx).
		First(&tutor, "user_id = ? AND status = ?", userID, models.TutorStatusActive).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tutor, nil
}

func (r *accountRepo) UpdateTutorRating(ctx context.Context, tutorID uuid.UUID, avg float64) error {
	return r.db.WithContext(ctx).
		Model(&models.TutorProfile{}).
		Where("user_id = ?", tutorID).
		Update("avg_rating", avg).Error
}
