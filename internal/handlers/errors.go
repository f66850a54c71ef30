package handlers

import (
	"errors"

	"proshop/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the HTTP status implied by the
// error taxonomy and renders the standard failure envelope.
func respondError(c *fiber.Ctx, err error, message string) error {
	status := fiber.StatusInternalServerError

	var (
		notFound   *apperrors.NotFoundError
		validation *apperrors.ValidationError
		forbidden  *apperrors.ForbiddenError
		conflict   *apperrors.ConflictError
		transient  *apperrors.TransientError
	)
	switch {
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &validation):
		status = fiber.StatusBadRequest
	case errors.As(err, &forbidden):
		status = fiber.StatusForbidden
	case errors.As(err, &conflict):
		status = fiber.StatusConflict
	case errors.As(err, &transient):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
