package scheduling

import (
	"github.com/priyanshsoni/handyhub/models"
)

// DayAvailability is the result of a slot enumeration. An empty Slots list
// with Available=true means "open day, nothing left"; Available=false means
// the day itself is closed and Reason says why.
type DayAvailability struct {
	Available bool     `json:"available"`
	Slots     []string `json:"slots"`
	Reason    string   `json:"reason,omitempty"`
}

// Availability derives the ordered bookable slots for a provider on a date,
// net of blocked dates, blocked slots and existing non-cancelled bookings.
// The list is recomputed fresh on every call; bookings and blocks can
// change between calls.
func (e *Engine) Availability(providerID uint, date string) (*DayAvailability, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	schedule, err := e.GetOrCreateSchedule(providerID)
	if err != nil {
		return nil, err
	}

	for _, blocked := range schedule.BlockedDates {
		if blocked.Date == date {
			return &DayAvailability{Available: false, Reason: "whole day blocked"}, nil
		}
	}

	var hours *models.WorkingHours
	for i := range schedule.WorkingHours {
		if schedule.WorkingHours[i].DayOfWeek == models.DayOfWeek(day.Weekday()) {
			hours = &schedule.WorkingHours[i]
			break
		}
	}
	if hours == nil || !hours.IsWorkDay {
		return &DayAvailability{Available: false, Reason: "provider does not work this day"}, nil
	}

	start, err := models.ParseClock(hours.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseClock(hours.EndTime)
	if err != nil {
		return nil, err
	}

	blockedMinutes := make(map[int]bool)
	for _, slot := range schedule.BlockedSlots {
		if slot.Date == date {
			blockedMinutes[slot.StartMinute] = true
		}
	}

	bookedMinutes, err := e.bookedMinutes(providerID, date)
	if err != nil {
		return nil, err
	}

	slots := []string{}
	for minute := start; minute < end; minute += SlotInterval {
		if blockedMinutes[minute] {
			continue
		}
		if overlapsBooking(minute, bookedMinutes) {
			continue
		}
		slots = append(slots, models.FormatClock(minute))
	}
	return &DayAvailability{Available: true, Slots: slots}, nil
}

// bookedMinutes returns the scheduled minutes of the provider's
// non-cancelled bookings on a date.
func (e *Engine) bookedMinutes(providerID uint, date string) ([]int, error) {
	var bookings []models.Booking
	err := e.db.
		Where("provider_id = ? AND scheduled_date = ?", providerID, date).
		Where("status <> ?", models.StatusCancelled).
		Where("scheduled_minute IS NOT NULL").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	minutes := make([]int, 0, len(bookings))
	for _, b := range bookings {
		minutes = append(minutes, *b.ScheduledMinute)
	}
	return minutes, nil
}

// overlapsBooking reports whether a candidate slot overlaps an existing
// booking. Both occupy a full slot width, so [m, m+30) and [b, b+30)
// intersect exactly when the minute values are less than a slot apart.
func overlapsBooking(minute int, booked []int) bool {
	for _, b := range booked {
		diff := minute - b
		if diff < 0 {
			diff = -diff
		}
		if diff < SlotInterval {
			return true
		}
	}
	return false
}
