package scheduling

import (
	"errors"
	"sync"
	"testing"

	"github.com/priyanshsoni/handyhub/models"
)

func TestCreateBookingPending(t *testing.T) {
	engine, db, notifier := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")
	service := createService(t, db, provider.ID, "Pipe repair", 80)

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Address:    "12 Elm St",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", booking.Status)
	}
	if booking.PaymentStatus != models.PaymentPending {
		t.Errorf("payment status = %s, want pending", booking.PaymentStatus)
	}
	if booking.Reference == "" {
		t.Error("reference not assigned")
	}
	if booking.Price != 80 {
		t.Errorf("price = %v, want service cost 80", booking.Price)
	}
	if booking.ScheduledTime != "10:00 AM" {
		t.Errorf("scheduled time = %q, want 10:00 AM", booking.ScheduledTime)
	}

	// A pending booking has not reserved the slot yet.
	var blocked int64
	if err := db.Model(&models.BlockedSlot{}).Where("provider_id = ?", provider.ID).Count(&blocked).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if blocked != 0 {
		t.Errorf("pending booking reserved a slot")
	}

	notifier.mu.Lock()
	sent := len(notifier.sent)
	notifier.mu.Unlock()
	if sent == 0 {
		t.Error("expected notifications on booking creation")
	}
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	other := createUser(t, db, "Olive Other", "olive@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	in := CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	}
	if _, err := engine.CreateBooking(in); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in.CustomerID = other.ID
	if _, err := engine.CreateBooking(in); !errors.Is(err, ErrConflict) {
		t.Fatalf("second booking at same slot: got %v, want ErrConflict", err)
	}
}

func TestCreateBookingRejectsOutsideHours(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	_, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "7:00 AM",
		Price:      50,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("out-of-hours booking: got %v, want ErrConflict", err)
	}
}

func TestCreateBookingServiceOwnershipChecked(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")
	rival := createUser(t, db, "Riley Rival", "riley@example.com")
	service := createService(t, db, rival.ID, "Wiring", 120)

	_, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("foreign service: got %v, want ErrConflict", err)
	}
}

func TestPaidWhilePendingAutoConfirms(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	updated, err := engine.SetPaymentStatus(booking.ID, models.PaymentPaid, "card", customer.ID)
	if err != nil {
		t.Fatalf("set payment: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed after payment", updated.Status)
	}
	if updated.PaymentStatus != models.PaymentPaid {
		t.Fatalf("payment status = %s, want paid", updated.PaymentStatus)
	}

	// Confirmation reserves the slot.
	var blocked int64
	if err := db.Model(&models.BlockedSlot{}).
		Where("provider_id = ? AND date = ? AND start_minute = ?", provider.ID, monday, minuteOf(t, "10:00 AM")).
		Count(&blocked).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if blocked != 1 {
		t.Fatalf("expected reserved slot row, got %d", blocked)
	}
}

func TestPaymentNotRecordedWhenConfirmConflicts(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// The provider takes the slot out of the calendar before payment lands.
	if err := engine.BlockSlot(provider.ID, monday, minuteOf(t, "10:00 AM"), "emergency"); err != nil {
		t.Fatalf("block slot: %v", err)
	}

	if _, err := engine.SetPaymentStatus(booking.ID, models.PaymentPaid, "card", customer.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("paid against blocked slot: got %v, want ErrConflict", err)
	}

	// The failed confirmation must not have recorded the payment either.
	reloaded, err := engine.GetBooking(booking.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PaymentStatus != models.PaymentPending {
		t.Fatalf("payment status = %s, want pending", reloaded.PaymentStatus)
	}
	if reloaded.Status != models.StatusPending {
		t.Fatalf("status = %s, want pending", reloaded.Status)
	}
}

func TestCancelChecksCurrentStatus(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// Load a copy while the booking is still pending, then let a confirm
	// land. Cancelling through the old copy must still see the reservation.
	before, err := engine.GetBooking(booking.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := engine.UpdateStatus(booking.ID, models.StatusConfirmed, provider.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := engine.cancel(before); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var blocked int64
	if err := db.Model(&models.BlockedSlot{}).Where("provider_id = ?", provider.ID).Count(&blocked).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if blocked != 0 {
		t.Fatalf("reservation leaked: %d slot rows remain", blocked)
	}
	reloaded, err := engine.GetBooking(booking.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", reloaded.Status)
	}
}

func TestCreateBookingDateWithoutTimeRejected(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	_, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		Price:      50,
	})
	if err == nil {
		t.Fatal("expected error for date without time")
	}
}

func TestCancelReleasesSlot(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := engine.UpdateStatus(booking.ID, models.StatusConfirmed, provider.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := engine.UpdateStatus(booking.ID, models.StatusCancelled, customer.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var blocked int64
	if err := db.Model(&models.BlockedSlot{}).Where("provider_id = ?", provider.ID).Count(&blocked).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if blocked != 0 {
		t.Fatalf("cancelled booking still holds %d slot rows", blocked)
	}

	// The slot is offered again.
	avail, err := engine.Availability(provider.ID, monday)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	found := false
	for _, slot := range avail.Slots {
		if slot == "10:00 AM" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("released slot not offered: %v", avail.Slots)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	for _, status := range []models.BookingStatus{models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted} {
		if _, err := engine.UpdateStatus(booking.ID, status, provider.ID); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	final, err := engine.GetBooking(booking.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if final.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", final.Status)
	}
	if final.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped")
	}
	if !final.Status.Terminal() {
		t.Fatal("completed must be terminal")
	}

	// No further transitions from a terminal status.
	if _, err := engine.UpdateStatus(booking.ID, models.StatusCancelled, customer.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("transition from completed: got %v, want ErrInvalidState", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// pending cannot skip to in_progress or completed.
	for _, status := range []models.BookingStatus{models.StatusInProgress, models.StatusCompleted} {
		if _, err := engine.UpdateStatus(booking.ID, status, provider.ID); !errors.Is(err, ErrInvalidState) {
			t.Errorf("pending -> %s: got %v, want ErrInvalidState", status, err)
		}
	}
}

func TestTransitionAuthorization(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")
	stranger := createUser(t, db, "Sam Stranger", "sam@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// Only the provider confirms.
	if _, err := engine.UpdateStatus(booking.ID, models.StatusConfirmed, customer.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("customer confirm: got %v, want ErrUnauthorized", err)
	}
	// A third party may do nothing.
	if _, err := engine.UpdateStatus(booking.ID, models.StatusCancelled, stranger.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("stranger cancel: got %v, want ErrUnauthorized", err)
	}
	// The customer may cancel their own booking.
	if _, err := engine.UpdateStatus(booking.ID, models.StatusCancelled, customer.ID); err != nil {
		t.Errorf("customer cancel: %v", err)
	}
}

func TestConcurrentConfirmsOneWinner(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	// Stage two pending bookings on neighbouring days; the same slot on
	// one day can only ever be held once.
	var bookings []*models.Booking
	for i, email := range []string{"a@example.com", "b@example.com"} {
		user := createUser(t, db, "Customer", email)
		date := monday
		if i == 1 {
			date = "2024-06-11"
		}
		b, err := engine.CreateBooking(CreateBookingInput{
			CustomerID: user.ID,
			ProviderID: provider.ID,
			Date:       date,
			TimeLabel:  "10:00 AM",
			Price:      50,
		})
		if err != nil {
			t.Fatalf("stage booking %d: %v", i, err)
		}
		bookings = append(bookings, b)
	}

	// Move the second booking onto the first one's slot: the reschedule
	// must fail because the slot is taken by a non-cancelled booking.
	if _, err := engine.Reschedule(bookings[1].ID, monday, "10:00 AM", bookings[1].CustomerID); !errors.Is(err, ErrConflict) {
		t.Fatalf("reschedule onto occupied slot: got %v, want ErrConflict", err)
	}

	// Concurrent confirms of the same booking: exactly one succeeds, the
	// other sees a state it can no longer leave via confirm.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.UpdateStatus(bookings[0].ID, models.StatusConfirmed, provider.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		t.Fatalf("no confirm succeeded: %v, %v", errs[0], errs[1])
	}

	var blocked int64
	if err := db.Model(&models.BlockedSlot{}).
		Where("provider_id = ? AND date = ?", provider.ID, monday).
		Count(&blocked).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if blocked != 1 {
		t.Fatalf("expected exactly one reservation, got %d", blocked)
	}
}

func TestRescheduleMovesPendingBooking(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	moved, err := engine.Reschedule(booking.ID, monday, "2:00 PM", customer.ID)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.ScheduledTime != "2:00 PM" {
		t.Fatalf("scheduled time = %q, want 2:00 PM", moved.ScheduledTime)
	}

	// The old slot frees up, the new one drops out.
	avail, err := engine.Availability(provider.ID, monday)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	for _, slot := range avail.Slots {
		if slot == "2:00 PM" {
			t.Fatal("new slot still offered")
		}
	}
	found := false
	for _, slot := range avail.Slots {
		if slot == "10:00 AM" {
			found = true
		}
	}
	if !found {
		t.Fatal("old slot not released")
	}
}

func TestRescheduleConfirmedRejected(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := engine.UpdateStatus(booking.ID, models.StatusConfirmed, provider.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := engine.Reschedule(booking.ID, monday, "2:00 PM", customer.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reschedule confirmed: got %v, want ErrInvalidState", err)
	}
}

func TestSetPaymentStatusRejectsUnknown(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	customer := createUser(t, db, "Casey Customer", "casey@example.com")
	provider := createUser(t, db, "Pat Provider", "pat@example.com")

	booking, err := engine.CreateBooking(CreateBookingInput{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		Date:       monday,
		TimeLabel:  "10:00 AM",
		Price:      50,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := engine.SetPaymentStatus(booking.ID, "refunded", "", customer.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("unknown payment status: got %v, want ErrInvalidState", err)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	if _, err := engine.GetBooking(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
