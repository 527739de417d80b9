package models

import (
	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WorkingHours is one weekday entry of a provider's recurring weekly
// template. One row per (provider, weekday).
type WorkingHours struct {
	gorm.Model
	ProviderID uint      `json:"provider_id" gorm:"index:idx_working_hours_provider_day,unique,composite:provider_day"`
	Provider   User      `json:"-" gorm:"foreignKey:ProviderID"`
	DayOfWeek  DayOfWeek `json:"day_of_week" gorm:"index:idx_working_hours_provider_day,unique,composite:provider_day"`
	StartTime  string    `json:"start_time"` // "HH:MM" in 24h
	EndTime    string    `json:"end_time"`   // "HH:MM" in 24h
	IsWorkDay  bool      `json:"is_work_day" gorm:"default:true"`
}

// BlockedDate removes a whole calendar day from a provider's availability,
// regardless of working hours.
type BlockedDate struct {
	gorm.Model
	ProviderID uint   `json:"provider_id" gorm:"index"`
	Date       string `json:"date"` // "2006-01-02"
	Reason     string `json:"reason,omitempty"`
}

// BlockedSlot carves a single slot out of an otherwise open day. The slot is
// identified by its minute of day; 12-hour labels are rendered only at the
// boundary.
type BlockedSlot struct {
	gorm.Model
	ProviderID  uint   `json:"provider_id" gorm:"index"`
	Date        string `json:"date"` // "2006-01-02"
	StartMinute int    `json:"-"`
	TimeLabel   string `json:"time" gorm:"-"`
	Reason      string `json:"reason,omitempty"`
}

func (s *BlockedSlot) AfterFind(tx *gorm.DB) error {
	s.TimeLabel = FormatClock(s.StartMinute)
	return nil
}
