package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/db"
	"github.com/priyanshsoni/handyhub/models"
	"github.com/priyanshsoni/handyhub/scheduling"
	"github.com/priyanshsoni/handyhub/utils"
)

// CreateServiceBid opens a request for proposals for the logged-in customer.
func CreateServiceBid(c *fiber.Ctx) error {
	customerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var input scheduling.CreateServiceBidInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	input.CustomerID = customerID

	bid, err := engine.CreateServiceBid(input)
	if err != nil {
		return engineError(c, "Failed to create service bid", err)
	}
	return c.Status(fiber.StatusCreated).JSON(bid)
}

// GetOpenServiceBids lists requests still inviting proposals, for providers
// browsing work.
func GetOpenServiceBids(c *fiber.Ctx) error {
	query := db.DB.
		Preload("Customer").
		Where("status = ? AND deadline > ?", models.BidOpen, time.Now())

	if category := c.Query("category"); category != "" {
		query = query.Where("service_category = ?", category)
	}

	var bids []models.ServiceBid
	if err := query.Order("deadline asc").Find(&bids).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(bids)
}

// GetMyServiceBids lists the logged-in customer's requests with their
// proposals.
func GetMyServiceBids(c *fiber.Ctx) error {
	customerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var bids []models.ServiceBid
	err := db.DB.
		Preload("Proposals.Provider").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&bids).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(bids)
}

// SubmitProposal files the logged-in provider's proposal against a request.
func SubmitProposal(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	bidID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service bid ID",
		})
	}

	var input scheduling.SubmitProposalInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	input.ProviderID = providerID
	input.ServiceBidID = uint(bidID)

	proposal, err := engine.SubmitProposal(input)
	if err != nil {
		return engineError(c, "Failed to submit proposal", err)
	}
	return c.Status(fiber.StatusCreated).JSON(proposal)
}

// UpdateProposal edits the logged-in provider's pending proposal.
func UpdateProposal(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	proposalID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid proposal ID",
		})
	}

	var req struct {
		Price         float64 `json:"price"`
		Message       string  `json:"message"`
		EstimatedTime string  `json:"estimated_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	proposal, err := engine.UpdateProposal(providerID, uint(proposalID), req.Price, req.Message, req.EstimatedTime)
	if err != nil {
		return engineError(c, "Failed to update proposal", err)
	}
	return c.JSON(proposal)
}

// GetMyProposals lists the logged-in provider's proposals.
func GetMyProposals(c *fiber.Ctx) error {
	providerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var proposals []models.ProviderBid
	err := db.DB.
		Preload("ServiceBid").
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&proposals).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(proposals)
}

// AcceptProposal locks in one proposal, rejects the rest and materializes
// the booking.
func AcceptProposal(c *fiber.Ctx) error {
	customerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	proposalID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid proposal ID",
		})
	}

	booking, err := engine.AcceptProposal(customerID, uint(proposalID))
	if err != nil {
		return engineError(c, "Failed to accept proposal", err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}
