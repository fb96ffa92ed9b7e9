// Package handlers contains the HTTP boundary: request parsing, validation,
// actor extraction and domain-error mapping. Role checks happen in the
// route middleware; ownership checks happen in the services.
package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/anjiri1684/tutor_marketplace/services"
)

var validate = validator.New()

// currentUserID extracts the authenticated account id from the verified
// JWT. The token was issued by the external identity service; this module
// only trusts its user_id claim.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}

// respondError maps domain errors onto HTTP statuses with a stable code
// field so clients can branch without string-matching messages.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"code":   "ValidationError",
			"fields": vErr.FieldErrors,
		})
	}

	type mapping struct {
		status int
		code   string
	}
	known := map[error]mapping{
		services.ErrSlotUnavailable:     {fiber.StatusBadRequest, "SlotUnavailable"},
		services.ErrOutsideAvailability: {fiber.StatusBadRequest, "OutsideAvailability"},
		services.ErrTooEarly:            {fiber.StatusBadRequest, "TooEarly"},
		services.ErrNotCompleted:        {fiber.StatusBadRequest, "NotCompleted"},
		services.ErrAlreadyProcessed:    {fiber.StatusConflict, "AlreadyProcessed"},
		services.ErrAlreadyReviewed:     {fiber.StatusConflict, "AlreadyReviewed"},
		services.ErrInvalidState:        {fiber.StatusConflict, "InvalidState"},
		services.ErrNotFound:            {fiber.StatusNotFound, "NotFound"},
		services.ErrForbidden:           {fiber.StatusForbidden, "Forbidden"},
		services.ErrAccountSuspended:    {fiber.StatusForbidden, "AccountSuspended"},
	}
	for domainErr, m := range known {
		if errors.Is(err, domainErr) {
			return c.Status(m.status).JSON(fiber.Map{"error": domainErr.Error(), "code": m.code})
		}
	}

	// StorageError path: let the central error handler log and answer 500.
	return err
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message, "code": "ValidationError"})
}
