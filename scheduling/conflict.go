package scheduling

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/priyanshsoni/handyhub/models"
)

// checkSlot decides whether a (provider, date, minute) reservation is legal
// against blocked dates, working hours, blocked slots and existing
// non-cancelled bookings. It is the single admission gate: booking creation
// and confirmation both go through it, so the policy cannot drift between
// the two call sites. Callers that reserve must run it inside the
// provider's critical section, on the same transaction as the reserve.
// excludeBookingID keeps a booking from conflicting with its own row when
// it is being confirmed or rescheduled; zero excludes nothing.
func checkSlot(tx *gorm.DB, providerID uint, date string, minute int, excludeBookingID uint) error {
	day, err := parseDate(date)
	if err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&models.BlockedDate{}).
		Where("provider_id = ? AND date = ?", providerID, date).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("date %s is blocked: %w", date, ErrConflict)
	}

	var hours models.WorkingHours
	err = tx.Where("provider_id = ? AND day_of_week = ?", providerID, int(day.Weekday())).First(&hours).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("provider does not work this day: %w", ErrConflict)
	}
	if err != nil {
		return err
	}
	if !hours.IsWorkDay {
		return fmt.Errorf("provider does not work this day: %w", ErrConflict)
	}

	start, err := models.ParseClock(hours.StartTime)
	if err != nil {
		return err
	}
	end, err := models.ParseClock(hours.EndTime)
	if err != nil {
		return err
	}
	if minute < start || minute >= end {
		return fmt.Errorf("%s is outside working hours: %w", models.FormatClock(minute), ErrConflict)
	}

	if err := tx.Model(&models.BlockedSlot{}).
		Where("provider_id = ? AND date = ? AND start_minute = ?", providerID, date, minute).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%s on %s is blocked: %w", models.FormatClock(minute), date, ErrConflict)
	}

	// Admission is an exact-minute check; the windowed adjacency logic
	// belongs to slot enumeration only.
	if err := tx.Model(&models.Booking{}).
		Where("provider_id = ? AND scheduled_date = ? AND scheduled_minute = ?", providerID, date, minute).
		Where("status <> ?", models.StatusCancelled).
		Where("id <> ?", excludeBookingID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%s on %s is already booked: %w", models.FormatClock(minute), date, ErrConflict)
	}

	return nil
}
