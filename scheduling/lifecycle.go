package scheduling

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/priyanshsoni/handyhub/models"
)

// CreateBookingInput carries everything the booking flow needs. TimeLabel
// accepts both "14:00" and "2:00 PM"; leaving it empty creates a booking
// whose slot is still to be determined (the bid flow does this).
type CreateBookingInput struct {
	CustomerID    uint    `json:"customer_id"`
	ProviderID    uint    `json:"provider_id"`
	ServiceID     uint    `json:"service_id"`
	Date          string  `json:"scheduled_date"`
	TimeLabel     string  `json:"scheduled_time"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	ZipCode       string  `json:"zip_code"`
	Price         float64 `json:"price"`
	Notes         string  `json:"notes"`
	PaymentMethod string  `json:"payment_method"`
}

// CreateBooking admits a new pending booking. The requested slot is
// validated through the same gate confirmation uses, so a known-unavailable
// slot can never be requested; capacity itself is reserved only on
// confirmation.
func (e *Engine) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	if _, err := e.loadUser(in.CustomerID); err != nil {
		return nil, err
	}
	if _, err := e.loadUser(in.ProviderID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerID:    in.CustomerID,
		ProviderID:    in.ProviderID,
		Address:       in.Address,
		City:          in.City,
		ZipCode:       in.ZipCode,
		Price:         in.Price,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
	}
	if in.ServiceID != 0 {
		var service models.Service
		if err := e.db.First(&service, in.ServiceID).Error; err != nil {
			return nil, fmt.Errorf("service %d: %w", in.ServiceID, ErrNotFound)
		}
		if service.ProviderID != in.ProviderID {
			return nil, fmt.Errorf("service %d does not belong to provider %d: %w", in.ServiceID, in.ProviderID, ErrConflict)
		}
		booking.ServiceID = &in.ServiceID
		if booking.Price == 0 {
			booking.Price = service.Cost
		}
	}

	if in.TimeLabel == "" {
		if in.Date != "" {
			return nil, fmt.Errorf("scheduled date %q given without a time", in.Date)
		}
		if err := e.db.Create(booking).Error; err != nil {
			return nil, err
		}
	} else {
		minute, err := models.ParseClock(in.TimeLabel)
		if err != nil {
			return nil, err
		}
		if _, err := parseDate(in.Date); err != nil {
			return nil, err
		}
		booking.ScheduledDate = in.Date
		booking.ScheduledMinute = &minute

		// Make sure the default template exists before the validator
		// consults working hours.
		if _, err := e.GetOrCreateSchedule(in.ProviderID); err != nil {
			return nil, err
		}

		unlock := e.locks.get(in.ProviderID)
		unlock.Lock()
		err = e.db.Transaction(func(tx *gorm.DB) error {
			if err := checkSlot(tx, in.ProviderID, in.Date, minute, 0); err != nil {
				return err
			}
			return tx.Create(booking).Error
		})
		unlock.Unlock()
		if err != nil {
			return nil, err
		}
		booking.ScheduledTime = models.FormatClock(minute)
	}

	when := "a time to be agreed"
	if booking.ScheduledTime != "" {
		when = fmt.Sprintf("%s at %s", booking.ScheduledDate, booking.ScheduledTime)
	}
	e.notifyParties(booking, in.CustomerID, "New booking request",
		fmt.Sprintf("<p>You have a new booking request for %s.</p>", when))
	if customer, err := e.loadUser(in.CustomerID); err == nil {
		e.notify(customer, "Payment requested",
			fmt.Sprintf("<p>Your booking %s is awaiting payment of %.2f.</p>", booking.Reference, booking.Price),
			fmt.Sprintf("/bookings/%d/payment", booking.ID))
	}
	return booking, nil
}

// GetBooking loads one booking by id.
func (e *Engine) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := e.db.Preload("Service").Preload("Provider").Preload("Customer").First(&booking, id).Error; err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return &booking, nil
}

// UpdateStatus drives the booking state machine. Confirmation runs the
// conflict check and the slot reservation as one critical section per
// provider; cancelling a confirmed booking releases the reservation.
func (e *Engine) UpdateStatus(id uint, newStatus models.BookingStatus, actorID uint) (*models.Booking, error) {
	booking, err := e.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if err := authorizeTransition(booking, newStatus, actorID); err != nil {
		return nil, err
	}
	if err := booking.CanTransition(newStatus); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidState)
	}

	switch newStatus {
	case models.StatusConfirmed:
		if err := e.confirm(booking); err != nil {
			return nil, err
		}
	case models.StatusCancelled:
		if err := e.cancel(booking); err != nil {
			return nil, err
		}
	case models.StatusCompleted:
		now := time.Now()
		booking.CompletedAt = &now
		booking.Status = models.StatusCompleted
		if err := e.db.Save(booking).Error; err != nil {
			return nil, err
		}
	default:
		booking.Status = newStatus
		if err := e.db.Save(booking).Error; err != nil {
			return nil, err
		}
	}

	e.notifyParties(booking, actorID, "Booking "+string(booking.Status),
		fmt.Sprintf("<p>Booking %s is now %s.</p>", booking.Reference, booking.Status))
	return booking, nil
}

// confirm reserves the slot and persists the status change atomically.
func (e *Engine) confirm(booking *models.Booking) error {
	if booking.ScheduledMinute == nil || booking.ScheduledDate == "" {
		return fmt.Errorf("booking %d has no scheduled time yet: %w", booking.ID, ErrInvalidState)
	}
	if _, err := e.GetOrCreateSchedule(booking.ProviderID); err != nil {
		return err
	}

	unlock := e.locks.get(booking.ProviderID)
	unlock.Lock()
	defer unlock.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := checkSlot(tx, booking.ProviderID, booking.ScheduledDate, *booking.ScheduledMinute, booking.ID); err != nil {
			return err
		}
		if err := blockSlotLocked(tx, booking.ProviderID, booking.ScheduledDate, *booking.ScheduledMinute,
			fmt.Sprintf("booking %s", booking.Reference)); err != nil {
			return err
		}
		booking.Status = models.StatusConfirmed
		return tx.Save(booking).Error
	})
}

// cancel releases the reservation when one is held. A pending booking
// never reserved capacity, so there is nothing to release. Whether a
// reservation is held is decided from the row as it stands inside the
// critical section, not from the caller's snapshot, since a confirm may
// have landed in between.
func (e *Engine) cancel(booking *models.Booking) error {
	unlock := e.locks.get(booking.ProviderID)
	unlock.Lock()
	defer unlock.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		var current models.Booking
		if err := tx.First(&current, booking.ID).Error; err != nil {
			return err
		}
		if current.Status == models.StatusConfirmed && current.ScheduledMinute != nil {
			if err := unblockSlotLocked(tx, current.ProviderID, current.ScheduledDate, *current.ScheduledMinute); err != nil {
				return err
			}
		}
		current.Status = models.StatusCancelled
		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		*booking = current
		return nil
	})
}

// SetPaymentStatus records an external payment signal. Payment is the
// confirmation trigger for the direct flow: a booking that is still pending
// auto-advances to confirmed the moment it is paid, reserving the slot.
func (e *Engine) SetPaymentStatus(id uint, status models.PaymentStatus, method string, actorID uint) (*models.Booking, error) {
	switch status {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
	default:
		return nil, fmt.Errorf("unknown payment status %q: %w", status, ErrInvalidState)
	}

	booking, err := e.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.CustomerID && actorID != booking.ProviderID {
		return nil, fmt.Errorf("actor %d is not a party to booking %d: %w", actorID, booking.ID, ErrUnauthorized)
	}

	booking.PaymentStatus = status
	if method != "" {
		booking.PaymentMethod = method
	}

	// confirm persists the whole record in its reservation transaction, so
	// a confirm conflict leaves the payment unrecorded too.
	if status == models.PaymentPaid && booking.Status == models.StatusPending {
		if err := e.confirm(booking); err != nil {
			return nil, err
		}
	} else if err := e.db.Save(booking).Error; err != nil {
		return nil, err
	}

	e.notifyParties(booking, actorID, "Payment "+string(status),
		fmt.Sprintf("<p>Payment for booking %s is now %s.</p>", booking.Reference, status))
	return booking, nil
}

// Reschedule sets or moves the slot of a pending booking, re-entering the
// conflict validator. This is the path bid-created bookings take once a
// concrete time has been negotiated.
func (e *Engine) Reschedule(id uint, date, timeLabel string, actorID uint) (*models.Booking, error) {
	booking, err := e.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.CustomerID && actorID != booking.ProviderID {
		return nil, fmt.Errorf("actor %d is not a party to booking %d: %w", actorID, booking.ID, ErrUnauthorized)
	}
	if booking.Status != models.StatusPending {
		return nil, fmt.Errorf("only pending bookings can be rescheduled: %w", ErrInvalidState)
	}

	minute, err := models.ParseClock(timeLabel)
	if err != nil {
		return nil, err
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	if _, err := e.GetOrCreateSchedule(booking.ProviderID); err != nil {
		return nil, err
	}

	unlock := e.locks.get(booking.ProviderID)
	unlock.Lock()
	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := checkSlot(tx, booking.ProviderID, date, minute, booking.ID); err != nil {
			return err
		}
		booking.ScheduledDate = date
		booking.ScheduledMinute = &minute
		return tx.Save(booking).Error
	})
	unlock.Unlock()
	if err != nil {
		return nil, err
	}

	booking.ScheduledTime = models.FormatClock(minute)
	e.notifyParties(booking, actorID, "Booking rescheduled",
		fmt.Sprintf("<p>Booking %s is now scheduled for %s at %s.</p>", booking.Reference, date, booking.ScheduledTime))
	return booking, nil
}

// authorizeTransition enforces who may move a booking where: the provider
// runs the service lifecycle, either party may cancel.
func authorizeTransition(booking *models.Booking, newStatus models.BookingStatus, actorID uint) error {
	switch newStatus {
	case models.StatusCancelled:
		if actorID == booking.CustomerID || actorID == booking.ProviderID {
			return nil
		}
	case models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted:
		if actorID == booking.ProviderID {
			return nil
		}
	}
	return fmt.Errorf("actor %d may not set booking %d to %s: %w", actorID, booking.ID, newStatus, ErrUnauthorized)
}
