package scheduling

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/priyanshsoni/handyhub/models"
)

// Schedule is the aggregate calendar view for one provider.
type Schedule struct {
	ProviderID   uint                  `json:"provider_id"`
	WorkingHours []models.WorkingHours `json:"working_hours"`
	BlockedDates []models.BlockedDate  `json:"blocked_dates"`
	BlockedSlots []models.BlockedSlot  `json:"blocked_slots"`
}

// WorkingHoursInput is one weekday entry of a wholesale working-hours
// replacement.
type WorkingHoursInput struct {
	DayOfWeek models.DayOfWeek `json:"day_of_week"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	IsWorkDay bool             `json:"is_work_day"`
}

// GetOrCreateSchedule returns the provider's calendar, materializing the
// default Monday-Friday 09:00-17:00 template the first time the provider's
// schedule is touched. The default is written once, never re-derived.
func (e *Engine) GetOrCreateSchedule(providerID uint) (*Schedule, error) {
	unlock := e.locks.get(providerID)
	unlock.Lock()
	defer unlock.Unlock()

	return e.getOrCreateScheduleLocked(providerID)
}

func (e *Engine) getOrCreateScheduleLocked(providerID uint) (*Schedule, error) {
	var hours []models.WorkingHours
	if err := e.db.Where("provider_id = ?", providerID).Order("day_of_week asc").Find(&hours).Error; err != nil {
		return nil, err
	}

	if len(hours) == 0 {
		hours = defaultWorkingHours(providerID)
		if err := e.db.Create(&hours).Error; err != nil {
			return nil, err
		}
	}

	schedule := &Schedule{ProviderID: providerID, WorkingHours: hours}
	if err := e.db.Where("provider_id = ?", providerID).Order("date asc").Find(&schedule.BlockedDates).Error; err != nil {
		return nil, err
	}
	if err := e.db.Where("provider_id = ?", providerID).Order("date asc, start_minute asc").Find(&schedule.BlockedSlots).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

func defaultWorkingHours(providerID uint) []models.WorkingHours {
	hours := make([]models.WorkingHours, 0, 7)
	for day := models.Sunday; day <= models.Saturday; day++ {
		hours = append(hours, models.WorkingHours{
			ProviderID: providerID,
			DayOfWeek:  day,
			StartTime:  "09:00",
			EndTime:    "17:00",
			IsWorkDay:  day >= models.Monday && day <= models.Friday,
		})
	}
	return hours
}

// SetWorkingHours replaces the provider's weekly template wholesale.
func (e *Engine) SetWorkingHours(providerID uint, inputs []WorkingHoursInput) (*Schedule, error) {
	rows := make([]models.WorkingHours, 0, len(inputs))
	seen := make(map[models.DayOfWeek]bool)
	for _, in := range inputs {
		if in.DayOfWeek < models.Sunday || in.DayOfWeek > models.Saturday {
			return nil, fmt.Errorf("invalid day of week %d", in.DayOfWeek)
		}
		if seen[in.DayOfWeek] {
			return nil, fmt.Errorf("duplicate entry for day %d", in.DayOfWeek)
		}
		seen[in.DayOfWeek] = true

		start, err := models.ParseClock(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := models.ParseClock(in.EndTime)
		if err != nil {
			return nil, err
		}
		if in.IsWorkDay && start >= end {
			return nil, fmt.Errorf("start time must be before end time on day %d", in.DayOfWeek)
		}
		rows = append(rows, models.WorkingHours{
			ProviderID: providerID,
			DayOfWeek:  in.DayOfWeek,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			IsWorkDay:  in.IsWorkDay,
		})
	}

	unlock := e.locks.get(providerID)
	unlock.Lock()
	defer unlock.Unlock()

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("provider_id = ?", providerID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return e.getOrCreateScheduleLocked(providerID)
}

// BlockDate removes a whole day from the provider's availability.
// Blocking an already-blocked date is a no-op.
func (e *Engine) BlockDate(providerID uint, date, reason string) error {
	if _, err := parseDate(date); err != nil {
		return err
	}

	unlock := e.locks.get(providerID)
	unlock.Lock()
	defer unlock.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		var existing models.BlockedDate
		err := tx.Where("provider_id = ? AND date = ?", providerID, date).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.BlockedDate{ProviderID: providerID, Date: date, Reason: reason}).Error
	})
}

// UnblockDate re-opens a blocked day. Unblocking an absent date is a no-op.
func (e *Engine) UnblockDate(providerID uint, date string) error {
	unlock := e.locks.get(providerID)
	unlock.Lock()
	defer unlock.Unlock()

	return e.db.Unscoped().
		Where("provider_id = ? AND date = ?", providerID, date).
		Delete(&models.BlockedDate{}).Error
}

// BlockSlot reserves one (date, slot) pair. Idempotent; concurrent blocks
// for different slots merge rather than clobber because every mutation is a
// row insert under the provider's lock.
func (e *Engine) BlockSlot(providerID uint, date string, minute int, reason string) error {
	if _, err := parseDate(date); err != nil {
		return err
	}

	unlock := e.locks.get(providerID)
	unlock.Lock()
	defer unlock.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		return blockSlotLocked(tx, providerID, date, minute, reason)
	})
}

func blockSlotLocked(tx *gorm.DB, providerID uint, date string, minute int, reason string) error {
	var existing models.BlockedSlot
	err := tx.Where("provider_id = ? AND date = ? AND start_minute = ?", providerID, date, minute).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&models.BlockedSlot{
		ProviderID:  providerID,
		Date:        date,
		StartMinute: minute,
		Reason:      reason,
	}).Error
}

// UnblockSlot releases one (date, slot) pair. Unblocking an absent slot is
// a no-op.
func (e *Engine) UnblockSlot(providerID uint, date string, minute int) error {
	unlock := e.locks.get(providerID)
	unlock.Lock()
	defer unlock.Unlock()

	return unblockSlotLocked(e.db, providerID, date, minute)
}

func unblockSlotLocked(tx *gorm.DB, providerID uint, date string, minute int) error {
	return tx.Unscoped().
		Where("provider_id = ? AND date = ? AND start_minute = ?", providerID, date, minute).
		Delete(&models.BlockedSlot{}).Error
}
