package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/repository"
)

// SlotInput is one window of a weekly template submission.
type SlotInput struct {
	Day         time.Weekday
	Start       models.MinuteOfDay
	End         models.MinuteOfDay
	IsAvailable bool
}

// SlotUpdateParams is a partial update: nil means leave the field alone.
type SlotUpdateParams struct {
	Day         *time.Weekday
	Start       *models.MinuteOfDay
	End         *models.MinuteOfDay
	IsAvailable *bool
}

// WeeklySchedule is the read shape of a tutor's template: slots grouped by
// day name, ascending by start time, plus the days with any open window.
type WeeklySchedule struct {
	Availability  map[string][]models.AvailabilitySlot `json:"availability"`
	AvailableDays []string                             `json:"available_days"`
}

// AvailabilityService owns the recurring weekly availability template.
type AvailabilityService struct {
	store repository.Store
}

func NewAvailabilityService(store repository.Store) *AvailabilityService {
	return &AvailabilityService{store: store}
}

// SetWeeklyAvailability atomically replaces the tutor's whole template.
// The input is validated as a set: any same-day overlap rejects the whole
// submission and leaves the stored template untouched.
func (s *AvailabilityService) SetWeeklyAvailability(ctx context.Context, tutorID uuid.UUID, inputs []SlotInput) ([]models.AvailabilitySlot, error) {
	v := &ValidationError{}
	for i, in := range inputs {
		validateWindow(v, in.Start, in.End)
		if in.Day < time.Sunday || in.Day > time.Saturday {
			v.add("day_of_week", "day must be between 0 (Sunday) and 6 (Saturday)")
		}
		for j := 0; j < i; j++ {
			other := inputs[j]
			if other.Day == in.Day && in.IsAvailable && other.IsAvailable &&
				Overlaps(other.Start, other.End, in.Start, in.End) {
				v.add("slots", "slots for the same day must not overlap")
			}
		}
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	slots := make([]models.AvailabilitySlot, 0, len(inputs))
	for _, in := range inputs {
		slots = append(slots, models.AvailabilitySlot{
			TutorID:     tutorID,
			DayOfWeek:   in.Day,
			StartMinute: in.Start,
			EndMinute:   in.End,
			IsAvailable: in.IsAvailable,
		})
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		return tx.Availability().ReplaceForTutor(ctx, tutorID, slots)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Availability().ListByTutor(ctx, tutorID)
}

// AddSlot appends one window to the template, rejecting overlap with the
// day's existing available slots.
func (s *AvailabilityService) AddSlot(ctx context.Context, tutorID uuid.UUID, day time.Weekday, start, end models.MinuteOfDay) (*models.AvailabilitySlot, error) {
	v := &ValidationError{}
	validateWindow(v, start, end)
	if day < time.Sunday || day > time.Saturday {
		v.add("day_of_week", "day must be between 0 (Sunday) and 6 (Saturday)")
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	existing, err := s.store.Availability().ListActiveByTutorDay(ctx, tutorID, day)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if Overlaps(existing[i].StartMinute, existing[i].EndMinute, start, end) {
			return nil, ErrSlotUnavailable
		}
	}

	slot := &models.AvailabilitySlot{
		TutorID:     tutorID,
		DayOfWeek:   day,
		StartMinute: start,
		EndMinute:   end,
		IsAvailable: true,
	}
	if err := s.store.Availability().Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// UpdateSlot applies a partial update to an owned slot and re-validates the
// resulting window against the rest of the day.
func (s *AvailabilityService) UpdateSlot(ctx context.Context, tutorID, slotID uuid.UUID, params SlotUpdateParams) (*models.AvailabilitySlot, error) {
	slot, err := s.ownedSlot(ctx, tutorID, slotID)
	if err != nil {
		return nil, err
	}

	if params.Day != nil {
		slot.DayOfWeek = *params.Day
	}
	if params.Start != nil {
		slot.StartMinute = *params.Start
	}
	if params.End != nil {
		slot.EndMinute = *params.End
	}
	if params.IsAvailable != nil {
		slot.IsAvailable = *params.IsAvailable
	}

	v := &ValidationError{}
	validateWindow(v, slot.StartMinute, slot.EndMinute)
	if slot.DayOfWeek < time.Sunday || slot.DayOfWeek > time.Saturday {
		v.add("day_of_week", "day must be between 0 (Sunday) and 6 (Saturday)")
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	if slot.IsAvailable {
		siblings, err := s.store.Availability().ListActiveByTutorDay(ctx, tutorID, slot.DayOfWeek)
		if err != nil {
			return nil, err
		}
		for i := range siblings {
			if siblings[i].ID == slot.ID {
				continue
			}
			if Overlaps(siblings[i].StartMinute, siblings[i].EndMinute, slot.StartMinute, slot.EndMinute) {
				return nil, ErrSlotUnavailable
			}
		}
	}

	if err := s.store.Availability().Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// DeleteSlot removes an owned slot. Existing bookings made while the slot
// was open are not touched.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, tutorID, slotID uuid.UUID) error {
	slot, err := s.ownedSlot(ctx, tutorID, slotID)
	if err != nil {
		return err
	}
	return s.store.Availability().Delete(ctx, slot.ID)
}

// ListAvailability returns the tutor's template grouped by day.
func (s *AvailabilityService) ListAvailability(ctx context.Context, tutorID uuid.UUID) (*WeeklySchedule, error) {
	slots, err := s.store.Availability().ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	schedule := &WeeklySchedule{
		Availability:  make(map[string][]models.AvailabilitySlot),
		AvailableDays: []string{},
	}
	open := make(map[time.Weekday]bool)
	for _, slot := range slots {
		name := dayName(slot.DayOfWeek)
		schedule.Availability[name] = append(schedule.Availability[name], slot)
		if slot.IsAvailable {
			open[slot.DayOfWeek] = true
		}
	}

	days := make([]int, 0, len(open))
	for day := range open {
		days = append(days, int(day))
	}
	sort.Ints(days)
	for _, day := range days {
		schedule.AvailableDays = append(schedule.AvailableDays, dayName(time.Weekday(day)))
	}
	return schedule, nil
}

func (s *AvailabilityService) ownedSlot(ctx context.Context, tutorID, slotID uuid.UUID) (*models.AvailabilitySlot, error) {
	slot, err := s.store.Availability().Get(ctx, slotID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if slot.TutorID != tutorID {
		return nil, ErrForbidden
	}
	return slot, nil
}

func validateWindow(v *ValidationError, start, end models.MinuteOfDay) {
	if !start.Valid() {
		v.add("start_time", "start time is out of range")
	}
	if !end.Valid() {
		v.add("end_time", "end time is out of range")
	}
	if start >= end {
		v.add("end_time", "start time must be before end time")
	}
}

func dayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}
