package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is one window of a tutor's recurring weekly template:
// "day X of every week, from start to end". Deleting a slot never touches
// bookings that were created while it was active.
type AvailabilitySlot struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TutorID     uuid.UUID    `gorm:"not null;index:idx_availability_tutor_day" json:"-"`
	DayOfWeek   time.Weekday `gorm:"not null;index:idx_availability_tutor_day" json:"day_of_week"`
	StartMinute MinuteOfDay  `gorm:"not null" json:"start_time"`
	EndMinute   MinuteOfDay  `gorm:"not null" json:"end_time"`
	IsAvailable bool         `gorm:"not null;default:true" json:"is_available"`

	Tutor User `gorm:"foreignkey:TutorID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
