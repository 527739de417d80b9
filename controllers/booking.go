package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/db"
	"github.com/priyanshsoni/handyhub/models"
	"github.com/priyanshsoni/handyhub/scheduling"
	"github.com/priyanshsoni/handyhub/utils"
)

// GetAvailability returns the bookable slots of a provider on a date.
func GetAvailability(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil || providerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider ID",
		})
	}

	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date query parameter is required",
		})
	}

	availability, err := engine.Availability(uint(providerID), date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to compute availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(availability)
}

// CreateBooking books a provider slot for the logged-in customer.
func CreateBooking(c *fiber.Ctx) error {
	customerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var input scheduling.CreateBookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	input.CustomerID = customerID

	booking, err := engine.CreateBooking(input)
	if err != nil {
		return engineError(c, "Failed to create booking", err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetBooking returns one booking, visible only to its parties.
func GetBooking(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	booking, err := engine.GetBooking(uint(id))
	if err != nil {
		return engineError(c, "Booking not found", err)
	}

	role, _ := c.Locals("role").(string)
	if booking.CustomerID != userID && booking.ProviderID != userID && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	}
	return c.JSON(booking)
}

// GetUpcomingBookings returns upcoming bookings for the logged-in user,
// provider or customer side depending on their role.
func GetUpcomingBookings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	limit := 10
	if c.Query("limit") != "" {
		if parsedLimit := c.QueryInt("limit"); parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	now := time.Now()
	startDate := now.Format(scheduling.DateLayout)
	endDate := now.AddDate(0, 1, 0).Format(scheduling.DateLayout)

	dateFilter := c.Query("filter", "month")
	switch dateFilter {
	case "today":
		endDate = startDate
	case "tomorrow":
		startDate = now.AddDate(0, 0, 1).Format(scheduling.DateLayout)
		endDate = startDate
	case "week":
		endDate = now.AddDate(0, 0, 7).Format(scheduling.DateLayout)
	case "month":
		endDate = now.AddDate(0, 1, 0).Format(scheduling.DateLayout)
	}

	party := "customer_id"
	if role, _ := c.Locals("role").(string); role == "provider" {
		party = "provider_id"
	}

	var bookings []models.Booking
	err := db.DB.
		Preload("Service").
		Preload("Customer").
		Preload("Provider").
		Where(party+" = ?", userID).
		Where("scheduled_date >= ? AND scheduled_date <= ?", startDate, endDate).
		Where("status IN ?", []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusInProgress}).
		Order("scheduled_date asc, scheduled_minute asc").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"bookings":   bookings,
		"count":      len(bookings),
		"filter":     dateFilter,
		"start_date": startDate,
		"end_date":   endDate,
	})
}

// GetBookingHistory returns past bookings for the logged-in user with
// pagination and an optional status filter.
func GetBookingHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	page := 1
	limit := 10
	if c.Query("page") != "" {
		if parsedPage := c.QueryInt("page"); parsedPage > 0 {
			page = parsedPage
		}
	}
	if c.Query("limit") != "" {
		if parsedLimit := c.QueryInt("limit"); parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	offset := (page - 1) * limit

	var statuses []models.BookingStatus
	status := c.Query("status")
	switch models.BookingStatus(status) {
	case models.StatusCompleted:
		statuses = []models.BookingStatus{models.StatusCompleted}
	case models.StatusCancelled:
		statuses = []models.BookingStatus{models.StatusCancelled}
	default:
		statuses = []models.BookingStatus{models.StatusCompleted, models.StatusCancelled}
	}

	party := "customer_id"
	if role, _ := c.Locals("role").(string); role == "provider" {
		party = "provider_id"
	}

	var bookings []models.Booking
	var total int64

	db.DB.Model(&models.Booking{}).
		Where(party+" = ?", userID).
		Where("status IN ?", statuses).
		Count(&total)

	err := db.DB.
		Preload("Service").
		Preload("Customer").
		Preload("Provider").
		Where(party+" = ?", userID).
		Where("status IN ?", statuses).
		Order("scheduled_date desc, scheduled_minute desc").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
		"pages":    (total + int64(limit) - 1) / int64(limit),
		"status":   status,
	})
}

// UpdateBookingStatus moves a booking through its state machine.
func UpdateBookingStatus(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	var req struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	booking, err := engine.UpdateStatus(uint(id), req.Status, userID)
	if err != nil {
		return engineError(c, "Failed to update booking status", err)
	}
	return c.JSON(booking)
}

// SetBookingPayment records a payment status signal against a booking.
// Marking a pending booking as paid confirms it.
func SetBookingPayment(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	var req struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
		PaymentMethod string               `json:"payment_method"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	booking, err := engine.SetPaymentStatus(uint(id), req.PaymentStatus, req.PaymentMethod, userID)
	if err != nil {
		return engineError(c, "Failed to update payment status", err)
	}
	return c.JSON(booking)
}

// RescheduleBooking sets or moves the slot of a pending booking.
func RescheduleBooking(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	var req struct {
		Date string `json:"scheduled_date"`
		Time string `json:"scheduled_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	booking, err := engine.Reschedule(uint(id), req.Date, req.Time, userID)
	if err != nil {
		return engineError(c, "Failed to reschedule booking", err)
	}
	return c.JSON(booking)
}
