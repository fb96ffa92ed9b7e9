package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/services"
)

type BookingHandler struct {
	lifecycle *services.BookingLifecycle
	reviews   *services.ReviewGate
}

func NewBookingHandler(lifecycle *services.BookingLifecycle, reviews *services.ReviewGate) *BookingHandler {
	return &BookingHandler{lifecycle: lifecycle, reviews: reviews}
}

type createBookingRequest struct {
	TutorID     string `json:"tutor_id" validate:"required,uuid"`
	BookingDate string `json:"booking_date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	MeetingType string `json:"meeting_type" validate:"required,oneof=virtual in_person"`
	Location    string `json:"location_or_link,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CreateBooking files a new pending request for the authenticated student.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	tutorID, _ := uuid.Parse(req.TutorID)
	date, err := models.ParseLocalDate(req.BookingDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := models.ParseClock(req.EndTime)
	if err != nil {
		return badRequest(c, err.Error())
	}

	booking, err := h.lifecycle.CreateRequest(c.Context(), services.CreateRequestParams{
		StudentID:      studentID,
		TutorID:        tutorID,
		Date:           date,
		Start:          start,
		End:            end,
		Subject:        req.Subject,
		MeetingType:    models.MeetingType(req.MeetingType),
		LocationOrLink: req.Location,
		Notes:          req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings lists the authenticated student's bookings.
func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.lifecycle.ListForStudent(c.Context(), studentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

// GetBooking fetches one booking for either of its participants.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	booking, err := h.lifecycle.GetBooking(c.Context(), actorID, bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

type respondRequest struct {
	Action          string `json:"action" validate:"required,oneof=accept decline"`
	ResponseMessage string `json:"response_message,omitempty"`
}

// Respond resolves a pending or reschedule-pending booking for the tutor.
func (h *BookingHandler) Respond(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	var req respondRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	booking, err := h.lifecycle.Respond(c.Context(), tutorID, bookingID,
		services.RespondAction(req.Action), req.ResponseMessage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

type rescheduleRequest struct {
	NewDate      string `json:"new_date" validate:"required"`
	NewStartTime string `json:"new_start_time" validate:"required"`
	NewEndTime   string `json:"new_end_time" validate:"required"`
	Reason       string `json:"reason,omitempty"`
}

// RequestReschedule moves the student's booking to a new window pending
// tutor approval.
func (h *BookingHandler) RequestReschedule(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	var req rescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	date, err := models.ParseLocalDate(req.NewDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	start, err := models.ParseClock(req.NewStartTime)
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := models.ParseClock(req.NewEndTime)
	if err != nil {
		return badRequest(c, err.Error())
	}

	booking, err := h.lifecycle.RequestReschedule(c.Context(), studentID, bookingID, date, start, end, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Cancel ends a pending or scheduled booking for either participant.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	var req cancelRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "cannot parse JSON")
	}

	booking, err := h.lifecycle.Cancel(c.Context(), actorID, bookingID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

type completeRequest struct {
	CompletionNotes string `json:"completion_notes,omitempty"`
}

// Complete marks an elapsed scheduled session as completed.
func (h *BookingHandler) Complete(c *fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	var req completeRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "cannot parse JSON")
	}

	booking, err := h.lifecycle.MarkComplete(c.Context(), actorID, bookingID, req.CompletionNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

type reviewRequest struct {
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText     string `json:"review_text,omitempty"`
	WouldRecommend *bool  `json:"would_recommend,omitempty"`
	SessionQuality *int   `json:"session_quality,omitempty" validate:"omitempty,min=1,max=5"`
	Communication  *int   `json:"communication,omitempty" validate:"omitempty,min=1,max=5"`
	Punctuality    *int   `json:"punctuality,omitempty" validate:"omitempty,min=1,max=5"`
	Helpfulness    *int   `json:"helpfulness,omitempty" validate:"omitempty,min=1,max=5"`
}

func (r reviewRequest) toParams() services.ReviewParams {
	recommend := true
	if r.WouldRecommend != nil {
		recommend = *r.WouldRecommend
	}
	return services.ReviewParams{
		Rating:         r.Rating,
		ReviewText:     r.ReviewText,
		WouldRecommend: recommend,
		SessionQuality: r.SessionQuality,
		Communication:  r.Communication,
		Punctuality:    r.Punctuality,
		Helpfulness:    r.Helpfulness,
	}
}

// SubmitReview files the single review for a completed booking.
func (h *BookingHandler) SubmitReview(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	review, err := h.reviews.SubmitReview(c.Context(), studentID, bookingID, req.toParams())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview lets the original reviewer revise their review.
func (h *BookingHandler) UpdateReview(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	review, err := h.reviews.UpdateReview(c.Context(), studentID, bookingID, req.toParams())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// CanReview reports whether the booking is ready for its review.
func (h *BookingHandler) CanReview(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return badRequest(c, "invalid booking id")
	}

	ok, err := h.reviews.CanReview(c.Context(), bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"can_review": ok})
}

// GetSessionsNeedingReview lists the student's completed but unreviewed
// sessions.
func (h *BookingHandler) GetSessionsNeedingReview(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.reviews.SessionsNeedingReview(c.Context(), studentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}
