package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/controllers"
	"github.com/priyanshsoni/handyhub/middleware"
)

// SetupBidRoutes configures the service request / proposal routes
func SetupBidRoutes(app *fiber.App) {
	bids := app.Group("/bids", middleware.Protected())
	bids.Post("/", middleware.RequirePermission("bids", "create"), controllers.CreateServiceBid)
	bids.Get("/open", middleware.RequireRole("provider"), controllers.GetOpenServiceBids)
	bids.Get("/mine", controllers.GetMyServiceBids)
	bids.Post("/:id/proposals", middleware.RequirePermission("bids", "propose"), controllers.SubmitProposal)

	proposals := app.Group("/proposals", middleware.Protected())
	proposals.Get("/mine", middleware.RequireRole("provider"), controllers.GetMyProposals)
	proposals.Patch("/:id", middleware.RequirePermission("bids", "propose"), controllers.UpdateProposal)
	proposals.Post("/:id/accept", middleware.RequirePermission("bids", "accept"), controllers.AcceptProposal)
}
