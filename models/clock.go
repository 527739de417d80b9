package models

import (
	"fmt"
	"strings"
	"time"
)

// Clock layouts accepted for slot times. Bookings and blocks have
// historically been written with either the 24-hour or the 12-hour form,
// so both normalize to the same minute of day before any comparison.
var clockLayouts = []string{"15:04", "3:04 PM", "03:04 PM"}

// ParseClock converts a time-of-day string ("14:30", "2:30 PM") to minutes
// since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day: %q", s)
}

// FormatClock renders minutes since midnight as the canonical 12-hour slot
// label, e.g. 570 -> "9:30 AM". This label is the slot's public identity.
func FormatClock(minute int) string {
	t := time.Date(2000, 1, 1, minute/60, minute%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
