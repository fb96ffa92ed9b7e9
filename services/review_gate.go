package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/repository"
)

// ReviewParams carries a review submission or update. Sub-ratings are
// optional; nil means not rated.
type ReviewParams struct {
	Rating         int
	ReviewText     string
	WouldRecommend bool
	SessionQuality *int
	Communication  *int
	Punctuality    *int
	Helpfulness    *int
}

// ReviewGate enforces at-most-one review per completed booking. The unique
// index on reviews.booking_id is the real arbiter under concurrency; the
// checks here exist to give callers precise errors.
type ReviewGate struct {
	store repository.Store
}

func NewReviewGate(store repository.Store) *ReviewGate {
	return &ReviewGate{store: store}
}

// CanReview reports whether the booking is completed and not yet reviewed.
func (g *ReviewGate) CanReview(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	booking, err := getBooking(ctx, g.store, bookingID)
	if err != nil {
		return false, err
	}
	if booking.Status != models.StatusCompleted {
		return false, nil
	}
	exists, err := g.store.Reviews().ExistsForBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SubmitReview files the single review for a completed booking and rolls
// the tutor's average rating forward, all in one transaction. A concurrent
// duplicate loses on the unique index and surfaces as ErrAlreadyReviewed.
func (g *ReviewGate) SubmitReview(ctx context.Context, studentID, bookingID uuid.UUID, p ReviewParams) (*models.Review, error) {
	if err := validateReview(p); err != nil {
		return nil, err
	}

	var review *models.Review
	err := g.store.InTx(ctx, func(tx repository.Store) error {
		booking, err := getBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if booking.StudentID != studentID {
			return ErrForbidden
		}
		if booking.Status != models.StatusCompleted {
			return ErrNotCompleted
		}

		exists, err := tx.Reviews().ExistsForBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyReviewed
		}

		review = &models.Review{
			BookingID:      booking.ID,
			StudentID:      studentID,
			TutorID:        booking.TutorID,
			Rating:         p.Rating,
			ReviewText:     p.ReviewText,
			WouldRecommend: p.WouldRecommend,
			SessionQuality: p.SessionQuality,
			Communication:  p.Communication,
			Punctuality:    p.Punctuality,
			Helpfulness:    p.Helpfulness,
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}
		return refreshTutorRating(ctx, tx, booking.TutorID)
	})
	if repository.IsUniqueViolation(err) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview lets the original reviewer revise their review. Reviews are
// never deleted.
func (g *ReviewGate) UpdateReview(ctx context.Context, studentID, bookingID uuid.UUID, p ReviewParams) (*models.Review, error) {
	if err := validateReview(p); err != nil {
		return nil, err
	}

	var review *models.Review
	err := g.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		review, err = tx.Reviews().GetByBooking(ctx, bookingID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if review.StudentID != studentID {
			return ErrForbidden
		}

		review.Rating = p.Rating
		review.ReviewText = p.ReviewText
		review.WouldRecommend = p.WouldRecommend
		review.SessionQuality = p.SessionQuality
		review.Communication = p.Communication
		review.Punctuality = p.Punctuality
		review.Helpfulness = p.Helpfulness
		if err := tx.Reviews().Update(ctx, review); err != nil {
			return err
		}
		return refreshTutorRating(ctx, tx, review.TutorID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// SessionsNeedingReview returns the student's completed bookings that have
// no review yet.
func (g *ReviewGate) SessionsNeedingReview(ctx context.Context, studentID uuid.UUID) ([]models.Booking, error) {
	return g.store.Bookings().ListCompletedWithoutReview(ctx, studentID)
}

func refreshTutorRating(ctx context.Context, tx repository.Store, tutorID uuid.UUID) error {
	avg, err := tx.Reviews().AverageForTutor(ctx, tutorID)
	if err != nil {
		return err
	}
	return tx.Accounts().UpdateTutorRating(ctx, tutorID, avg)
}

func validateReview(p ReviewParams) error {
	v := &ValidationError{}
	if p.Rating < 1 || p.Rating > 5 {
		v.add("rating", "rating must be between 1 and 5")
	}
	subRatings := map[string]*int{
		"session_quality": p.SessionQuality,
		"communication":   p.Communication,
		"punctuality":     p.Punctuality,
		"helpfulness":     p.Helpfulness,
	}
	for field, value := range subRatings {
		if value != nil && (*value < 1 || *value > 5) {
			v.add(field, field+" must be between 1 and 5")
		}
	}
	return v.errOrNil()
}
