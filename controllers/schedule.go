package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/models"
	"github.com/priyanshsoni/handyhub/scheduling"
	"github.com/priyanshsoni/handyhub/utils"
)

// GetMySchedule returns the logged-in provider's calendar, materializing
// the default template on first touch.
func GetMySchedule(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	schedule, err := engine.GetOrCreateSchedule(providerID)
	if err != nil {
		return engineError(c, "Failed to fetch schedule", err)
	}
	return c.JSON(schedule)
}

// SetWorkingHours replaces the provider's weekly template wholesale.
func SetWorkingHours(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var inputs []scheduling.WorkingHoursInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	schedule, err := engine.SetWorkingHours(providerID, inputs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to update working hours",
			Error:   err.Error(),
		})
	}
	return c.JSON(schedule)
}

type blockDateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// BlockDate takes a whole day out of the provider's availability.
func BlockDate(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var req blockDateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if err := engine.BlockDate(providerID, req.Date, req.Reason); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to block date",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnblockDate re-opens a previously blocked day.
func UnblockDate(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date query parameter is required",
		})
	}

	if err := engine.UnblockDate(providerID, date); err != nil {
		return engineError(c, "Failed to unblock date", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type blockSlotRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// BlockSlot carves one slot out of a day.
func BlockSlot(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var req blockSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	minute, err := models.ParseClock(req.Time)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid time",
			Error:   err.Error(),
		})
	}

	if err := engine.BlockSlot(providerID, req.Date, minute, req.Reason); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to block slot",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnblockSlot releases a blocked slot.
func UnblockSlot(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	date := c.Query("date")
	timeLabel := c.Query("time")
	if date == "" || timeLabel == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date and time query parameters are required",
		})
	}

	minute, err := models.ParseClock(timeLabel)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid time",
			Error:   err.Error(),
		})
	}

	if err := engine.UnblockSlot(providerID, date, minute); err != nil {
		return engineError(c, "Failed to unblock slot", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
