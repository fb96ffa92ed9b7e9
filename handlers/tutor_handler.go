package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anjiri1684/tutor_marketplace/services"
)

type TutorHandler struct {
	lifecycle *services.BookingLifecycle
	earnings  *services.EarningsAggregator
}

func NewTutorHandler(lifecycle *services.BookingLifecycle, earnings *services.EarningsAggregator) *TutorHandler {
	return &TutorHandler{lifecycle: lifecycle, earnings: earnings}
}

// GetMyBookings lists all bookings where the caller is the tutor.
func (h *TutorHandler) GetMyBookings(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.lifecycle.ListForTutor(c.Context(), tutorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

// GetOpenRequests lists pending and reschedule-pending bookings awaiting
// the tutor's decision.
func (h *TutorHandler) GetOpenRequests(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.lifecycle.ListAwaitingTutor(c.Context(), tutorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

// GetEarnings returns the aggregated earnings report for the caller.
func (h *TutorHandler) GetEarnings(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	report, err := h.earnings.GetEarnings(c.Context(), tutorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
