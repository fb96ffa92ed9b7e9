package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus is the closed set of booking states. Transitions are only
// legal through CanTransitionTo; nothing compares raw strings.
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusScheduled         BookingStatus = "scheduled"
	StatusRejected          BookingStatus = "rejected"
	StatusCancelled         BookingStatus = "cancelled"
	StatusReschedulePending BookingStatus = "reschedule_pending"
	StatusCompleted         BookingStatus = "completed"
)

// ActiveStatuses are the states that occupy the tutor's calendar and take
// part in overlap detection.
var ActiveStatuses = []BookingStatus{StatusPending, StatusScheduled, StatusReschedulePending}

func (s BookingStatus) Active() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusReschedulePending:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// AwaitingTutor reports whether the booking is waiting on a tutor
// accept/decline decision.
func (s BookingStatus) AwaitingTutor() bool {
	return s == StatusPending || s == StatusReschedulePending
}

// CanTransitionTo encodes the state machine. Every legal edge is listed;
// anything else is invalid.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusScheduled || target == StatusRejected ||
			target == StatusCancelled || target == StatusReschedulePending
	case StatusScheduled:
		return target == StatusCancelled || target == StatusReschedulePending ||
			target == StatusCompleted
	case StatusReschedulePending:
		return target == StatusScheduled || target == StatusRejected
	case StatusRejected, StatusCancelled, StatusCompleted:
		return false
	}
	return false
}

type MeetingType string

const (
	MeetingVirtual  MeetingType = "virtual"
	MeetingInPerson MeetingType = "in_person"
)

func (m MeetingType) Valid() bool {
	return m == MeetingVirtual || m == MeetingInPerson
}

// Booking is a single tutoring session request and its full lifecycle.
// The hourly rate is snapshotted at creation; TotalAmount is derived from
// it once and only recomputed when a reschedule changes the window.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`
	TutorID   uuid.UUID `gorm:"not null;index:idx_bookings_tutor_date" json:"tutor_id"`

	BookingDate     LocalDate   `gorm:"not null;index:idx_bookings_tutor_date" json:"booking_date"`
	StartMinute     MinuteOfDay `gorm:"not null" json:"start_time"`
	EndMinute       MinuteOfDay `gorm:"not null" json:"end_time"`
	DurationMinutes int         `gorm:"not null" json:"duration_minutes"`

	Subject        string      `gorm:"size:100;not null" json:"subject"`
	MeetingType    MeetingType `gorm:"size:20;not null" json:"meeting_type"`
	LocationOrLink *string     `gorm:"size:255" json:"location_or_link"`

	HourlyRate  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	Status               BookingStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	StudentNotes         *string       `gorm:"type:text" json:"student_notes"`
	TutorResponseMessage *string       `gorm:"type:text" json:"tutor_response_message"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
	Tutor   User `gorm:"foreignkey:TutorID" json:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RespondedAt *time.Time `json:"responded_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// EndsAt is the wall-clock moment the session ends.
func (b *Booking) EndsAt() time.Time {
	return b.BookingDate.At(b.EndMinute)
}

// Participant reports whether the given account is the student or tutor on
// this booking.
func (b *Booking) Participant(accountID uuid.UUID) bool {
	return b.StudentID == accountID || b.TutorID == accountID
}

// SessionAmount computes the charge for a window at the given hourly rate,
// rounded to cents.
func SessionAmount(rate decimal.Decimal, start, end MinuteOfDay) decimal.Decimal {
	hours := decimal.NewFromInt(int64(end - start)).Div(decimal.NewFromInt(60))
	return rate.Mul(hours).Round(2)
}
