package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
)

func TutorRoutes(app *fiber.App, h *handlers.TutorHandler) {
	api := app.Group("/api/v1")

	tutor := api.Group("/tutor", middleware.Protected(), middleware.TutorRequired())
	tutor.Get("/bookings", h.GetMyBookings)
	tutor.Get("/bookings/requests", h.GetOpenRequests)
	tutor.Get("/earnings", h.GetEarnings)
}
