package scheduling

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/priyanshsoni/handyhub/models"
)

// CreateServiceBidInput is a customer's open request for proposals.
type CreateServiceBidInput struct {
	CustomerID      uint      `json:"customer_id"`
	ServiceCategory string    `json:"service_category"`
	Description     string    `json:"description"`
	BudgetMin       float64   `json:"budget_min"`
	BudgetMax       float64   `json:"budget_max"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	ZipCode         string    `json:"zip_code"`
	Deadline        time.Time `json:"deadline"`
}

// SubmitProposalInput is a provider's priced proposal against an open
// service bid.
type SubmitProposalInput struct {
	ProviderID    uint    `json:"provider_id"`
	ServiceBidID  uint    `json:"service_bid_id"`
	Price         float64 `json:"price"`
	Message       string  `json:"message"`
	EstimatedTime string  `json:"estimated_time"`
}

// CreateServiceBid opens a customer request for proposals.
func (e *Engine) CreateServiceBid(in CreateServiceBidInput) (*models.ServiceBid, error) {
	if _, err := e.loadUser(in.CustomerID); err != nil {
		return nil, err
	}
	if in.Deadline.Before(time.Now()) {
		return nil, fmt.Errorf("deadline must be in the future")
	}
	if in.BudgetMax > 0 && in.BudgetMin > in.BudgetMax {
		return nil, fmt.Errorf("budget_min must not exceed budget_max")
	}

	bid := &models.ServiceBid{
		CustomerID:      in.CustomerID,
		ServiceCategory: in.ServiceCategory,
		Description:     in.Description,
		BudgetMin:       in.BudgetMin,
		BudgetMax:       in.BudgetMax,
		Address:         in.Address,
		City:            in.City,
		ZipCode:         in.ZipCode,
		Deadline:        in.Deadline,
		Status:          models.BidOpen,
	}
	if err := e.db.Create(bid).Error; err != nil {
		return nil, err
	}
	return bid, nil
}

// SubmitProposal files one provider proposal under an open request. A
// provider gets one active proposal per request; editing a pending proposal
// is UpdateProposal, not a second submission.
func (e *Engine) SubmitProposal(in SubmitProposalInput) (*models.ProviderBid, error) {
	provider, err := e.loadUser(in.ProviderID)
	if err != nil {
		return nil, err
	}

	var serviceBid models.ServiceBid
	if err := e.db.First(&serviceBid, in.ServiceBidID).Error; err != nil {
		return nil, fmt.Errorf("service bid %d: %w", in.ServiceBidID, ErrNotFound)
	}
	if serviceBid.Status != models.BidOpen {
		return nil, fmt.Errorf("service bid %d is already assigned: %w", serviceBid.ID, ErrConflict)
	}
	if time.Now().After(serviceBid.Deadline) {
		return nil, fmt.Errorf("deadline for service bid %d has passed: %w", serviceBid.ID, ErrConflict)
	}

	var count int64
	if err := e.db.Model(&models.ProviderBid{}).
		Where("service_bid_id = ? AND provider_id = ?", in.ServiceBidID, in.ProviderID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("provider %d already has a proposal for service bid %d: %w", in.ProviderID, serviceBid.ID, ErrConflict)
	}

	proposal := &models.ProviderBid{
		ServiceBidID:  in.ServiceBidID,
		ProviderID:    in.ProviderID,
		Price:         in.Price,
		Message:       in.Message,
		EstimatedTime: in.EstimatedTime,
		Status:        models.ProposalPending,
	}
	if err := e.db.Create(proposal).Error; err != nil {
		return nil, err
	}

	if customer, err := e.loadUser(serviceBid.CustomerID); err == nil {
		e.notify(customer, "New proposal received",
			fmt.Sprintf("<p>%s sent a proposal of %.2f for your %s request.</p>", provider.Name, in.Price, serviceBid.ServiceCategory),
			fmt.Sprintf("/bids/%d", serviceBid.ID))
	}
	return proposal, nil
}

// UpdateProposal edits a provider's own proposal while it is still pending.
func (e *Engine) UpdateProposal(providerID, proposalID uint, price float64, message, estimatedTime string) (*models.ProviderBid, error) {
	var proposal models.ProviderBid
	if err := e.db.First(&proposal, proposalID).Error; err != nil {
		return nil, fmt.Errorf("proposal %d: %w", proposalID, ErrNotFound)
	}
	if proposal.ProviderID != providerID {
		return nil, fmt.Errorf("proposal %d does not belong to provider %d: %w", proposalID, providerID, ErrUnauthorized)
	}
	if proposal.Status != models.ProposalPending {
		return nil, fmt.Errorf("proposal %d is %s: %w", proposalID, proposal.Status, ErrInvalidState)
	}

	if price > 0 {
		proposal.Price = price
	}
	if message != "" {
		proposal.Message = message
	}
	if estimatedTime != "" {
		proposal.EstimatedTime = estimatedTime
	}
	if err := e.db.Save(&proposal).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

// AcceptProposal resolves an open request as one unit: the chosen proposal
// becomes ACCEPTED, every sibling PENDING proposal becomes REJECTED, the
// request becomes ASSIGNED and a pending booking is materialized with the
// proposal's price and back-references to both bids. The booking starts
// without a scheduled time; the parties pick the concrete slot afterwards
// through Reschedule, which runs the conflict validator.
func (e *Engine) AcceptProposal(customerID, providerBidID uint) (*models.Booking, error) {
	var proposal models.ProviderBid
	err := e.db.Preload("ServiceBid").First(&proposal, providerBidID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("proposal %d: %w", providerBidID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	serviceBid := proposal.ServiceBid
	if serviceBid.CustomerID != customerID {
		return nil, fmt.Errorf("service bid %d does not belong to customer %d: %w", serviceBid.ID, customerID, ErrUnauthorized)
	}
	if serviceBid.Status != models.BidOpen {
		return nil, fmt.Errorf("service bid %d is already assigned: %w", serviceBid.ID, ErrConflict)
	}
	if proposal.Status != models.ProposalPending {
		return nil, fmt.Errorf("proposal %d is %s: %w", providerBidID, proposal.Status, ErrInvalidState)
	}

	booking := &models.Booking{
		CustomerID:    customerID,
		ProviderID:    proposal.ProviderID,
		ServiceBidID:  &serviceBid.ID,
		ProviderBidID: &proposal.ID,
		Address:       serviceBid.Address,
		City:          serviceBid.City,
		ZipCode:       serviceBid.ZipCode,
		Price:         proposal.Price,
		Notes:         serviceBid.Description,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
	}

	// The status reads above are a fast path only; a concurrent accept can
	// invalidate them before the transaction starts. The writes below carry
	// their own status guards, so exactly one accept can resolve a request.
	err = e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProviderBid{}).
			Where("id = ? AND status = ?", proposal.ID, models.ProposalPending).
			Update("status", models.ProposalAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("proposal %d is no longer pending: %w", proposal.ID, ErrConflict)
		}
		if err := tx.Model(&models.ProviderBid{}).
			Where("service_bid_id = ? AND id <> ? AND status = ?", serviceBid.ID, proposal.ID, models.ProposalPending).
			Update("status", models.ProposalRejected).Error; err != nil {
			return err
		}
		res = tx.Model(&models.ServiceBid{}).
			Where("id = ? AND status = ?", serviceBid.ID, models.BidOpen).
			Update("status", models.BidAssigned)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("service bid %d is already assigned: %w", serviceBid.ID, ErrConflict)
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}

	if provider, err := e.loadUser(proposal.ProviderID); err == nil {
		e.notify(provider, "Proposal accepted",
			fmt.Sprintf("<p>Your proposal for the %s request was accepted. Booking %s is awaiting a scheduled time.</p>",
				serviceBid.ServiceCategory, booking.Reference),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}
	if customer, err := e.loadUser(customerID); err == nil {
		e.notify(customer, "Booking created",
			fmt.Sprintf("<p>Booking %s was created from your accepted proposal. Agree on a time with your provider to continue.</p>", booking.Reference),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}
	return booking, nil
}
