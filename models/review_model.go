package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is the single review a student may file for a completed booking.
// The unique index on BookingID is what makes concurrent double submissions
// lose at the database, not just in application checks.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID `gorm:"not null;uniqueIndex" json:"booking_id"`
	StudentID uuid.UUID `gorm:"not null" json:"student_id"`
	TutorID   uuid.UUID `gorm:"not null;index" json:"tutor_id"`

	Rating         int    `gorm:"not null" json:"rating"`
	ReviewText     string `gorm:"type:text" json:"review_text"`
	WouldRecommend bool   `gorm:"not null;default:true" json:"would_recommend"`

	SessionQuality *int `json:"session_quality"`
	Communication  *int `json:"communication"`
	Punctuality    *int `json:"punctuality"`
	Helpfulness    *int `json:"helpfulness"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
