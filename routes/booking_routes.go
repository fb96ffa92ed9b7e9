package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
)

func BookingRoutes(app *fiber.App, h *handlers.BookingHandler) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", middleware.StudentRequired(), h.GetMyBookings)
	booking.Get("/needing-review", middleware.StudentRequired(), h.GetSessionsNeedingReview)
	booking.Get("/:bookingId", h.GetBooking)
	booking.Post("", middleware.StudentRequired(), h.CreateBooking)
	booking.Post("/:bookingId/respond", middleware.TutorRequired(), h.Respond)
	booking.Put("/:bookingId/reschedule", middleware.StudentRequired(), h.RequestReschedule)
	booking.Put("/:bookingId/cancel", h.Cancel)
	booking.Post("/:bookingId/complete", h.Complete)
	booking.Get("/:bookingId/can-review", middleware.StudentRequired(), h.CanReview)
	booking.Post("/:bookingId/review", middleware.StudentRequired(), h.SubmitReview)
	booking.Put("/:bookingId/review", middleware.StudentRequired(), h.UpdateReview)
}
