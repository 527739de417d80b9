package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/controllers"
	"github.com/priyanshsoni/handyhub/middleware"
)

// SetupBookingRoutes configures availability and booking lifecycle routes
func SetupBookingRoutes(app *fiber.App) {
	app.Get("/providers/:id/availability", controllers.GetAvailability)

	booking := app.Group("/bookings", middleware.Protected())
	booking.Post("/", middleware.RequirePermission("bookings", "create"), controllers.CreateBooking)
	booking.Get("/upcoming", controllers.GetUpcomingBookings)
	booking.Get("/history", controllers.GetBookingHistory)
	booking.Get("/:id", controllers.GetBooking)
	booking.Patch("/:id/status", middleware.RequirePermission("bookings", "update"), controllers.UpdateBookingStatus)
	booking.Patch("/:id/payment", middleware.RequirePermission("bookings", "update"), controllers.SetBookingPayment)
	booking.Patch("/:id/schedule", middleware.RequirePermission("bookings", "update"), controllers.RescheduleBooking)
}
