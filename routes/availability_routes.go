package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
)

func AvailabilityRoutes(app *fiber.App, h *handlers.AvailabilityHandler) {
	api := app.Group("/api/v1")

	// Browsing a tutor's open days needs no authentication.
	api.Get("/tutors/:tutorId/availability", h.GetTutorAvailability)

	availability := api.Group("/availability", middleware.Protected(), middleware.TutorRequired())
	availability.Put("", h.SetWeeklyAvailability)
	availability.Post("", h.AddSlot)
	availability.Patch("/:slotId", h.UpdateSlot)
	availability.Delete("/:slotId", h.DeleteSlot)
}
