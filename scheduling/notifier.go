package scheduling

import (
	"fmt"
	"log"

	"github.com/priyanshsoni/handyhub/models"
	"github.com/priyanshsoni/handyhub/utils"
)

// Notifier delivers a message to a user. Delivery is fire-and-forget: a
// failed delivery must never fail or roll back the state transition that
// produced it.
type Notifier interface {
	Notify(user models.User, title, body, link string)
}

// EmailNotifier sends notifications over SMTP.
type EmailNotifier struct{}

func (EmailNotifier) Notify(user models.User, title, body, link string) {
	if user.Email == "" {
		return
	}
	html := fmt.Sprintf(`
		<p>Dear %s,</p>
		%s
		<p>Best regards,</p>
		<p>The HandyHub Team</p>
	`, user.Name, body)
	if link != "" {
		html = fmt.Sprintf("%s<p><a href=%q>View details</a></p>", html, link)
	}
	go func() {
		if err := utils.SendEmail(user.Email, title, html); err != nil {
			log.Printf("Failed to send notification to %s: %v", user.Email, err)
		}
	}()
}
