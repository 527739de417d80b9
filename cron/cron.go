package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/priyanshsoni/handyhub/db"
	"github.com/priyanshsoni/handyhub/models"
	"github.com/priyanshsoni/handyhub/scheduling"
	"github.com/priyanshsoni/handyhub/utils"
)

// StartCronJobs starts the scheduler for booking reminders
func StartCronJobs() {
	c := cron.New()
	// Every day at 18:00, remind both parties about tomorrow's bookings
	_, err := c.AddFunc("0 18 * * *", sendBookingReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for booking reminders")
}

// sendBookingReminders mails every party of a confirmed booking scheduled
// for tomorrow
func sendBookingReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(scheduling.DateLayout)

	var bookings []models.Booking
	err := db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		Where("status = ? AND scheduled_date = ?", models.StatusConfirmed, tomorrow).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching bookings for reminders: %v", err)
		return
	}

	for _, booking := range bookings {
		if err := sendReminderEmail(&booking); err != nil {
			log.Printf("Failed to send reminder for booking %d: %v", booking.ID, err)
			continue
		}
		log.Printf("Sent reminder for booking %d to %s", booking.ID, booking.Customer.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(booking *models.Booking) error {
	subject := fmt.Sprintf("Reminder: Upcoming Booking %s", booking.Reference)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your booking scheduled tomorrow.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Address:</strong> %s, %s</li>
		</ul>
		<p>If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>The HandyHub Team</p>
	`, booking.Customer.Name, booking.Provider.Name,
		booking.ScheduledDate, booking.ScheduledTime,
		booking.Address, booking.City)

	return utils.SendEmail(booking.Customer.Email, subject, body)
}
