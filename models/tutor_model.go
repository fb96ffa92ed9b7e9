package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TutorProfile holds the tutor-side fields consumed by the booking engine:
// the hourly rate snapshotted onto new bookings and the approval status
// gating visibility. Bio/subjects editing is handled by the profile service.
type TutorProfile struct {
	UserID     uuid.UUID       `gorm:"primary_key" json:"user_id"`
	Headline   *string         `gorm:"size:255" json:"headline"`
	Bio        *string         `gorm:"type:text" json:"bio"`
	Subjects   string          `gorm:"size:512" json:"subjects"`
	HourlyRate decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"hourly_rate"`
	Status     string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	AvgRating  float32         `gorm:"default:0" json:"avg_rating"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

const (
	TutorStatusPending = "pending"
	TutorStatusActive  = "active"
)
