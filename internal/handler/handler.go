package handler

import (
	"errors"

	"go-erp-ws/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getActor returns the display name of the authenticated caller, set by the
// auth middleware.
func getActor(c *fiber.Ctx) string {
	name := c.Locals("user_name")
	if name == nil {
		return "system"
	}
	return name.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps the error taxonomy to HTTP statuses: validation 400,
// not found 404, invalid operation 409, anything else 500.
func respondError(c *fiber.Ctx, err error) error {
	status := 500
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = 400
	case errors.Is(err, apperr.ErrNotFound):
		status = 404
	case errors.Is(err, apperr.ErrInvalidOperation):
		status = 409
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
