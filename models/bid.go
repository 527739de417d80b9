package models

import (
	"time"

	"gorm.io/gorm"
)

type ServiceBidStatus string

type ProviderBidStatus string

const (
	BidOpen     ServiceBidStatus = "OPEN"
	BidAssigned ServiceBidStatus = "ASSIGNED"

	ProposalPending  ProviderBidStatus = "PENDING"
	ProposalAccepted ProviderBidStatus = "ACCEPTED"
	ProposalRejected ProviderBidStatus = "REJECTED"
)

// ServiceBid is an open customer request for a category of service,
// inviting priced proposals from providers. It becomes ASSIGNED exactly
// when one proposal under it is accepted.
type ServiceBid struct {
	gorm.Model
	CustomerID      uint             `json:"customer_id"`
	Customer        User             `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ServiceCategory string           `json:"service_category"`
	Description     string           `json:"description"`
	BudgetMin       float64          `json:"budget_min"`
	BudgetMax       float64          `json:"budget_max"`
	Address         string           `json:"address"`
	City            string           `json:"city"`
	ZipCode         string           `json:"zip_code"`
	Deadline        time.Time        `json:"deadline"`
	Status          ServiceBidStatus `json:"status"`
	Proposals       []ProviderBid    `json:"proposals,omitempty" gorm:"foreignKey:ServiceBidID"`
}

func (b *ServiceBid) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BidOpen
	}
	return nil
}

// ProviderBid is a provider's proposal against a ServiceBid. One active
// proposal per (provider, service bid); editing a PENDING proposal is an
// update, not a new submission.
type ProviderBid struct {
	gorm.Model
	ServiceBidID  uint              `json:"service_bid_id" gorm:"index:idx_provider_bid_unique,unique,composite:bid_provider"`
	ServiceBid    ServiceBid        `json:"-" gorm:"foreignKey:ServiceBidID"`
	ProviderID    uint              `json:"provider_id" gorm:"index:idx_provider_bid_unique,unique,composite:bid_provider"`
	Provider      User              `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Price         float64           `json:"price"`
	Message       string            `json:"message"`
	EstimatedTime string            `json:"estimated_time"`
	Status        ProviderBidStatus `json:"status"`
}

func (p *ProviderBid) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = ProposalPending
	}
	return nil
}
