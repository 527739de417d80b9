package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/priyanshsoni/handyhub/controllers"
	"github.com/priyanshsoni/handyhub/cron"
	"github.com/priyanshsoni/handyhub/db"
	"github.com/priyanshsoni/handyhub/middleware"
	"github.com/priyanshsoni/handyhub/redis"
	"github.com/priyanshsoni/handyhub/routes"
	"github.com/priyanshsoni/handyhub/scheduling"
)

func main() {
	app := fiber.New()
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		db.Migrate()
	} else {
		db.Init()
	}
	redis.InitRedis()

	engine := scheduling.NewEngine(db.DB, scheduling.EmailNotifier{})
	controllers.InitEngine(engine)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(middleware.RateLimit(120))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("HandyHub API")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupScheduleRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupBidRoutes(app)

	cron.StartCronJobs()

	log.Fatal(app.Listen(":8000"))
}
