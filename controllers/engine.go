package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/scheduling"
	"github.com/priyanshsoni/handyhub/utils"
)

var engine *scheduling.Engine

// InitEngine hands the controllers the shared scheduling engine. Called
// once from main after the database is up.
func InitEngine(e *scheduling.Engine) {
	engine = e
}

// engineError maps engine error kinds to HTTP statuses.
func engineError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, scheduling.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, scheduling.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, scheduling.ErrInvalidState):
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(utils.ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}

// currentUserID pulls the authenticated user's id set by the JWT middleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
