package scheduling

import (
	"testing"

	"github.com/priyanshsoni/handyhub/models"
)

func TestDefaultScheduleMaterializedOnce(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	schedule, err := engine.GetOrCreateSchedule(provider.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if len(schedule.WorkingHours) != 7 {
		t.Fatalf("expected 7 weekday entries, got %d", len(schedule.WorkingHours))
	}
	for _, h := range schedule.WorkingHours {
		wantWorkDay := h.DayOfWeek >= models.Monday && h.DayOfWeek <= models.Friday
		if h.IsWorkDay != wantWorkDay {
			t.Errorf("day %d: IsWorkDay = %v, want %v", h.DayOfWeek, h.IsWorkDay, wantWorkDay)
		}
		if h.StartTime != "09:00" || h.EndTime != "17:00" {
			t.Errorf("day %d: hours %s-%s, want 09:00-17:00", h.DayOfWeek, h.StartTime, h.EndTime)
		}
	}

	// A second call must return the same rows, not regenerate them.
	again, err := engine.GetOrCreateSchedule(provider.ID)
	if err != nil {
		t.Fatalf("get schedule again: %v", err)
	}
	var count int64
	if err := db.Model(&models.WorkingHours{}).Where("provider_id = ?", provider.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7 rows after second call, got %d", count)
	}
	for i := range schedule.WorkingHours {
		if again.WorkingHours[i].ID != schedule.WorkingHours[i].ID {
			t.Fatalf("day %d row recreated", i)
		}
	}
}

func TestSetWorkingHoursReplacesTemplate(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	if _, err := engine.GetOrCreateSchedule(provider.ID); err != nil {
		t.Fatalf("seed default: %v", err)
	}

	inputs := []WorkingHoursInput{
		{DayOfWeek: models.Saturday, StartTime: "10:00", EndTime: "14:00", IsWorkDay: true},
	}
	schedule, err := engine.SetWorkingHours(provider.ID, inputs)
	if err != nil {
		t.Fatalf("set working hours: %v", err)
	}
	if len(schedule.WorkingHours) != 1 {
		t.Fatalf("expected 1 entry after replacement, got %d", len(schedule.WorkingHours))
	}
	if schedule.WorkingHours[0].DayOfWeek != models.Saturday {
		t.Fatalf("expected Saturday entry, got day %d", schedule.WorkingHours[0].DayOfWeek)
	}
}

func TestSetWorkingHoursValidation(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	cases := []struct {
		name   string
		inputs []WorkingHoursInput
	}{
		{"day out of range", []WorkingHoursInput{{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00", IsWorkDay: true}}},
		{"duplicate day", []WorkingHoursInput{
			{DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "17:00", IsWorkDay: true},
			{DayOfWeek: models.Monday, StartTime: "10:00", EndTime: "18:00", IsWorkDay: true},
		}},
		{"start after end", []WorkingHoursInput{{DayOfWeek: models.Monday, StartTime: "17:00", EndTime: "09:00", IsWorkDay: true}}},
		{"unparseable time", []WorkingHoursInput{{DayOfWeek: models.Monday, StartTime: "morning", EndTime: "17:00", IsWorkDay: true}}},
	}
	for _, tc := range cases {
		if _, err := engine.SetWorkingHours(provider.ID, tc.inputs); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestBlockDateIdempotent(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	if err := engine.BlockDate(provider.ID, "2024-06-10", "vacation"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := engine.BlockDate(provider.ID, "2024-06-10", "vacation"); err != nil {
		t.Fatalf("block again: %v", err)
	}

	var count int64
	if err := db.Model(&models.BlockedDate{}).Where("provider_id = ?", provider.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 blocked date, got %d", count)
	}

	if err := engine.UnblockDate(provider.ID, "2024-06-10"); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	// Unblocking a date that is not blocked is a no-op.
	if err := engine.UnblockDate(provider.ID, "2024-06-10"); err != nil {
		t.Fatalf("unblock again: %v", err)
	}
	if err := db.Model(&models.BlockedDate{}).Where("provider_id = ?", provider.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 blocked dates, got %d", count)
	}
}

func TestBlockSlotIdempotent(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")
	ten := minuteOf(t, "10:00 AM")

	if err := engine.BlockSlot(provider.ID, "2024-06-10", ten, "paperwork"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := engine.BlockSlot(provider.ID, "2024-06-10", ten, "paperwork"); err != nil {
		t.Fatalf("block again: %v", err)
	}

	var count int64
	if err := db.Model(&models.BlockedSlot{}).Where("provider_id = ?", provider.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 blocked slot, got %d", count)
	}

	if err := engine.UnblockSlot(provider.ID, "2024-06-10", ten); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if err := db.Model(&models.BlockedSlot{}).Where("provider_id = ?", provider.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 blocked slots, got %d", count)
	}
}

func TestBlockDateRejectsBadDate(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	if err := engine.BlockDate(provider.ID, "10/06/2024", "vacation"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
