package scheduling

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/priyanshsoni/handyhub/models"
)

const (
	// SlotInterval is the fixed slot width in minutes.
	SlotInterval = 30

	// DateLayout is the calendar-date format used for blocked dates and
	// booking dates.
	DateLayout = "2006-01-02"
)

// Engine owns the provider calendar and the booking lifecycle: working
// hours, blocked dates and slots, slot derivation, conflict detection and
// the status/payment state machine.
type Engine struct {
	db       *gorm.DB
	notifier Notifier
	locks    *providerLocks
}

func NewEngine(db *gorm.DB, notifier Notifier) *Engine {
	return &Engine{
		db:       db,
		notifier: notifier,
		locks:    newProviderLocks(),
	}
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return d, nil
}

func (e *Engine) loadUser(id uint) (models.User, error) {
	var user models.User
	if err := e.db.First(&user, id).Error; err != nil {
		return user, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, nil
}

func (e *Engine) notify(user models.User, title, body, link string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(user, title, body, link)
}

// notifyParties tells every affected party about a booking change, except
// the actor who made it.
func (e *Engine) notifyParties(b *models.Booking, actorID uint, title, body string) {
	link := fmt.Sprintf("/bookings/%d", b.ID)
	for _, id := range []uint{b.CustomerID, b.ProviderID} {
		if id == actorID {
			continue
		}
		if user, err := e.loadUser(id); err == nil {
			e.notify(user, title, body, link)
		}
	}
}
