package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

type PaymentStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Booking is a reserved appointment between a customer and a provider.
// Bookings are never deleted; cancellation is a status value.
type Booking struct {
	gorm.Model
	Reference     string        `json:"reference" gorm:"uniqueIndex"`
	CustomerID    uint          `json:"customer_id"`
	Customer      User          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProviderID    uint          `json:"provider_id"`
	Provider      User          `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ServiceID     *uint         `json:"service_id,omitempty"`
	Service       Service       `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	ServiceBidID  *uint         `json:"service_bid_id,omitempty"`
	ProviderBidID *uint         `json:"provider_bid_id,omitempty"`
	ScheduledDate string        `json:"scheduled_date"` // "2006-01-02"
	// Minute of day for the reserved slot. Nil means "to be determined",
	// which is how bid-created bookings start out.
	ScheduledMinute *int          `json:"-"`
	ScheduledTime   string        `json:"scheduled_time" gorm:"-"`
	Address         string        `json:"address"`
	City            string        `json:"city"`
	ZipCode         string        `json:"zip_code"`
	Price           float64       `json:"price"`
	Notes           string        `json:"notes"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   string        `json:"payment_method,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Reference == "" {
		b.Reference = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
	if b.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// AfterFind renders the 12-hour display label from the stored minute of day.
func (b *Booking) AfterFind(tx *gorm.DB) error {
	if b.ScheduledMinute != nil {
		b.ScheduledTime = FormatClock(*b.ScheduledMinute)
	}
	return nil
}

// Terminal reports whether no further status transitions are allowed.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition validates a status change against the booking state machine:
// pending -> confirmed -> in_progress -> completed, with cancelled reachable
// from pending or confirmed.
func (b *Booking) CanTransition(newStatus BookingStatus) error {
	switch b.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusInProgress && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusInProgress:
		if newStatus != StatusCompleted {
			return fmt.Errorf("invalid transition from in_progress to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	default:
		return fmt.Errorf("unknown status %s", b.Status)
	}
	return nil
}
