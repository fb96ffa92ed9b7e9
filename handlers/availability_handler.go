package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/services"
)

type AvailabilityHandler struct {
	availability *services.AvailabilityService
}

func NewAvailabilityHandler(availability *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type slotRequest struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

type setWeeklyRequest struct {
	Slots []slotRequest `json:"slots" validate:"required,dive"`
}

// GetTutorAvailability is the public read of a tutor's weekly template.
func (h *AvailabilityHandler) GetTutorAvailability(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("tutorId"))
	if err != nil {
		return badRequest(c, "invalid tutor id")
	}

	schedule, err := h.availability.ListAvailability(c.Context(), tutorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

// SetWeeklyAvailability replaces the caller's entire template.
func (h *AvailabilityHandler) SetWeeklyAvailability(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req setWeeklyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	inputs := make([]services.SlotInput, 0, len(req.Slots))
	for _, slot := range req.Slots {
		input, err := parseSlotInput(slot)
		if err != nil {
			return badRequest(c, err.Error())
		}
		inputs = append(inputs, input)
	}

	slots, err := h.availability.SetWeeklyAvailability(c.Context(), tutorID, inputs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(slots)
}

// AddSlot creates one template window.
func (h *AvailabilityHandler) AddSlot(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req slotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	input, err := parseSlotInput(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	slot, err := h.availability.AddSlot(c.Context(), tutorID, input.Day, input.Start, input.End)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

type updateSlotRequest struct {
	DayOfWeek   *int    `json:"day_of_week,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// UpdateSlot partially updates an owned window. Absent fields stay as they
// are.
func (h *AvailabilityHandler) UpdateSlot(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return badRequest(c, "invalid slot id")
	}

	var req updateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cannot parse JSON")
	}

	var params services.SlotUpdateParams
	if req.DayOfWeek != nil {
		day := time.Weekday(*req.DayOfWeek)
		params.Day = &day
	}
	if req.StartTime != nil {
		start, err := models.ParseClock(*req.StartTime)
		if err != nil {
			return badRequest(c, err.Error())
		}
		params.Start = &start
	}
	if req.EndTime != nil {
		end, err := models.ParseClock(*req.EndTime)
		if err != nil {
			return badRequest(c, err.Error())
		}
		params.End = &end
	}
	params.IsAvailable = req.IsAvailable

	slot, err := h.availability.UpdateSlot(c.Context(), tutorID, slotID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(slot)
}

// DeleteSlot removes an owned window.
func (h *AvailabilityHandler) DeleteSlot(c *fiber.Ctx) error {
	tutorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return badRequest(c, "invalid slot id")
	}

	if err := h.availability.DeleteSlot(c.Context(), tutorID, slotID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseSlotInput(req slotRequest) (services.SlotInput, error) {
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return services.SlotInput{}, err
	}
	end, err := models.ParseClock(req.EndTime)
	if err != nil {
		return services.SlotInput{}, err
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return services.SlotInput{
		Day:         time.Weekday(req.DayOfWeek),
		Start:       start,
		End:         end,
		IsAvailable: available,
	}, nil
}
