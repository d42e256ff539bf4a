package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"inventory/internal/models"
)

// statusForError maps a service error kind to its HTTP status. Anything
// outside the known kinds is an unexpected storage failure and surfaces
// as a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateKey), errors.Is(err, models.ErrReferenceInUse):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrReferenceNotFound), errors.Is(err, models.ErrInvalidArgument):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON renders a service error with its mapped status.
func errorJSON(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
