package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/repository"
)

// memStore is an in-memory repository.Store for service tests. InTx holds
// the store mutex for the whole callback, which mirrors the serialization
// the row locks provide in Postgres: concurrent transactions on the same
// store run one after another.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]models.User
	tutors  map[uuid.UUID]models.TutorProfile
	slots   map[uuid.UUID]models.AvailabilitySlot
	booked  map[uuid.UUID]models.Booking
	reviews map[uuid.UUID]models.Review
	ratings map[uuid.UUID]float64
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]models.User),
		tutors:  make(map[uuid.UUID]models.TutorProfile),
		slots:   make(map[uuid.UUID]models.AvailabilitySlot),
		booked:  make(map[uuid.UUID]models.Booking),
		reviews: make(map[uuid.UUID]models.Review),
		ratings: make(map[uuid.UUID]float64),
	}
}

func (s *memStore) Accounts() repository.AccountRepository {
	return &memAccounts{memView{s: s}}
}

func (s *memStore) Availability() repository.AvailabilityRepository {
	return &memAvailability{memView{s: s}}
}

func (s *memStore) Bookings() repository.BookingRepository {
	return &memBookings{memView{s: s}}
}

func (s *memStore) Reviews() repository.ReviewRepository {
	return &memReviews{memView{s: s}}
}

func (s *memStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{s: s})
}

// memTx is the Store handed to InTx callbacks; its repositories skip the
// mutex the transaction already holds.
type memTx struct {
	s *memStore
}

func (t *memTx) Accounts() repository.AccountRepository {
	return &memAccounts{memView{s: t.s, inTx: true}}
}

func (t *memTx) Availability() repository.AvailabilityRepository {
	return &memAvailability{memView{s: t.s, inTx: true}}
}

func (t *memTx) Bookings() repository.BookingRepository {
	return &memBookings{memView{s: t.s, inTx: true}}
}

func (t *memTx) Reviews() repository.ReviewRepository {
	return &memReviews{memView{s: t.s, inTx: true}}
}

func (t *memTx) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(t)
}

type memView struct {
	s    *memStore
	inTx bool
}

func (v memView) acquire() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

type memAccounts struct{ memView }

func (r *memAccounts) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	defer r.acquire()()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *memAccounts) GetActiveTutor(_ context.Context, userID uuid.UUID) (*models.TutorProfile, error) {
	defer r.acquire()()
	tutor, ok := r.s.tutors[userID]
	if !ok || tutor.Status != models.TutorStatusActive {
		return nil, repository.ErrNotFound
	}
	return &tutor, nil
}

func (r *memAccounts) UpdateTutorRating(_ context.Context, tutorID uuid.UUID, avg float64) error {
	defer r.acquire()()
	r.s.ratings[tutorID] = avg
	return nil
}

type memAvailability struct{ memView }

func (r *memAvailability) Get(_ context.Context, id uuid.UUID) (*models.AvailabilitySlot, error) {
	defer r.acquire()()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func (r *memAvailability) ListByTutor(_ context.Context, tutorID uuid.UUID) ([]models.AvailabilitySlot, error) {
	defer r.acquire()()
	var out []models.AvailabilitySlot
	for _, slot := range r.s.slots {
		if slot.TutorID == tutorID {
			out = append(out, slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *memAvailability) ListActiveByTutorDay(_ context.Context, tutorID uuid.UUID, day time.Weekday) ([]models.AvailabilitySlot, error) {
	defer r.acquire()()
	var out []models.AvailabilitySlot
	for _, slot := range r.s.slots {
		if slot.TutorID == tutorID && slot.DayOfWeek == day && slot.IsAvailable {
			out = append(out, slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *memAvailability) Create(_ context.Context, slot *models.AvailabilitySlot) error {
	defer r.acquire()()
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	r.s.slots[slot.ID] = *slot
	return nil
}

func (r *memAvailability) Update(_ context.Context, slot *models.AvailabilitySlot) error {
	defer r.acquire()()
	r.s.slots[slot.ID] = *slot
	return nil
}

func (r *memAvailability) Delete(_ context.Context, id uuid.UUID) error {
	defer r.acquire()()
	delete(r.s.slots, id)
	return nil
}

func (r *memAvailability) ReplaceForTutor(_ context.Context, tutorID uuid.UUID, slots []models.AvailabilitySlot) error {
	defer r.acquire()()
	for id, slot := range r.s.slots {
		if slot.TutorID == tutorID {
			delete(r.s.slots, id)
		}
	}
	for i := range slots {
		if slots[i].ID == uuid.Nil {
			slots[i].ID = uuid.New()
		}
		r.s.slots[slots[i].ID] = slots[i]
	}
	return nil
}

type memBookings struct{ memView }

func (r *memBookings) Get(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	defer r.acquire()()
	booking, ok := r.s.booked[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &booking, nil
}

func (r *memBookings) Create(_ context.Context, b *models.Booking) error {
	defer r.acquire()()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	r.s.booked[b.ID] = *b
	return nil
}

func (r *memBookings) Update(_ context.Context, b *models.Booking) error {
	defer r.acquire()()
	r.s.booked[b.ID] = *b
	return nil
}

func (r *memBookings) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool { return b.StudentID == studentID }), nil
}

func (r *memBookings) ListByTutor(_ context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool { return b.TutorID == tutorID }), nil
}

func (r *memBookings) ListAwaitingTutor(_ context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool {
		return b.TutorID == tutorID && b.Status.AwaitingTutor()
	}), nil
}

func (r *memBookings) ListCompletedByTutor(_ context.Context, tutorID uuid.UUID) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool {
		return b.TutorID == tutorID && b.Status == models.StatusCompleted
	}), nil
}

func (r *memBookings) ListCompletedWithoutReview(_ context.Context, studentID uuid.UUID) ([]models.Booking, error) {
	defer r.acquire()()
	reviewed := make(map[uuid.UUID]bool)
	for _, review := range r.s.reviews {
		reviewed[review.BookingID] = true
	}
	return r.filter(func(b models.Booking) bool {
		return b.StudentID == studentID && b.Status == models.StatusCompleted && !reviewed[b.ID]
	}), nil
}

func (r *memBookings) ActiveOverlapping(_ context.Context, tutorID uuid.UUID, date models.LocalDate, start, end models.MinuteOfDay, exclude *uuid.UUID) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool {
		if exclude != nil && b.ID == *exclude {
			return false
		}
		return b.TutorID == tutorID && b.BookingDate == date && b.Status.Active() &&
			b.StartMinute < end && b.EndMinute > start
	}), nil
}

func (r *memBookings) LockActiveForDate(_ context.Context, tutorID uuid.UUID, date models.LocalDate) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool {
		return b.TutorID == tutorID && b.BookingDate == date && b.Status.Active()
	}), nil
}

func (r *memBookings) ListScheduledEndedBefore(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	defer r.acquire()()
	return r.filter(func(b models.Booking) bool {
		return b.Status == models.StatusScheduled && !b.EndsAt().After(cutoff)
	}), nil
}

func (r *memBookings) filter(keep func(models.Booking) bool) []models.Booking {
	var out []models.Booking
	for _, b := range r.s.booked {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

type memReviews struct{ memView }

func (r *memReviews) GetByBooking(_ context.Context, bookingID uuid.UUID) (*models.Review, error) {
	defer r.acquire()()
	for _, review := range r.s.reviews {
		if review.BookingID == bookingID {
			review := review
			return &review, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memReviews) ExistsForBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	defer r.acquire()()
	for _, review := range r.s.reviews {
		if review.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReviews) Create(_ context.Context, review *models.Review) error {
	defer r.acquire()()
	// Mirror the unique index on reviews.booking_id.
	for _, existing := range r.s.reviews {
		if existing.BookingID == review.BookingID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_reviews_booking_id"}
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *memReviews) Update(_ context.Context, review *models.Review) error {
	defer r.acquire()()
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *memReviews) AverageForTutor(_ context.Context, tutorID uuid.UUID) (float64, error) {
	defer r.acquire()()
	var sum, count float64
	for _, review := range r.s.reviews {
		if review.TutorID == tutorID {
			sum += float64(review.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

func sortSlots(slots []models.AvailabilitySlot) {
	for i := 1; i < len(slots); i++ {
		for j := i; j > 0; j-- {
			a, b := slots[j-1], slots[j]
			if a.DayOfWeek < b.DayOfWeek ||
				(a.DayOfWeek == b.DayOfWeek && a.StartMinute <= b.StartMinute) {
				break
			}
			slots[j-1], slots[j] = b, a
		}
	}
}

// Test fixture helpers shared across the service tests.

func seedStudent(s *memStore) uuid.UUID {
	id := uuid.New()
	s.users[id] = models.User{
		ID: id, FullName: "Student", Email: id.String() + "@test.local",
		Role: models.RoleStudent, IsActive: true,
	}
	return id
}

func seedTutor(s *memStore, rate string) uuid.UUID {
	id := uuid.New()
	s.users[id] = models.User{
		ID: id, FullName: "Tutor", Email: id.String() + "@test.local",
		Role: models.RoleTutor, IsActive: true,
	}
	s.tutors[id] = models.TutorProfile{
		UserID:     id,
		HourlyRate: decimal.RequireFromString(rate),
		Status:     models.TutorStatusActive,
	}
	return id
}

func seedSlot(s *memStore, tutorID uuid.UUID, day time.Weekday, start, end models.MinuteOfDay) uuid.UUID {
	id := uuid.New()
	s.slots[id] = models.AvailabilitySlot{
		ID: id, TutorID: tutorID, DayOfWeek: day,
		StartMinute: start, EndMinute: end, IsAvailable: true,
	}
	return id
}

func mustClock(s string) models.MinuteOfDay {
	m, err := models.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

func mustDate(s string) models.LocalDate {
	d, err := models.ParseLocalDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
