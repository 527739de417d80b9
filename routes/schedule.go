package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/controllers"
	"github.com/priyanshsoni/handyhub/middleware"
)

// SetupScheduleRoutes configures the provider calendar routes
func SetupScheduleRoutes(app *fiber.App) {
	schedule := app.Group("/schedule", middleware.Protected(), middleware.RequireRole("provider"))
	schedule.Get("/", controllers.GetMySchedule)
	schedule.Put("/working-hours", controllers.SetWorkingHours)
	schedule.Post("/blocked-dates", controllers.BlockDate)
	schedule.Delete("/blocked-dates", controllers.UnblockDate)
	schedule.Post("/blocked-slots", controllers.BlockSlot)
	schedule.Delete("/blocked-slots", controllers.UnblockSlot)
}
