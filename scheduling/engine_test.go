package scheduling

import (
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/priyanshsoni/handyhub/models"
)

// recordingNotifier captures notifications so tests can assert on them
// without touching SMTP.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *recordingNotifier) Notify(user models.User, title, body, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, fmt.Sprintf("%s: %s", user.Email, title))
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB, *recordingNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A single connection keeps every gorm session on the same in-memory
	// database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Service{},
		&models.WorkingHours{},
		&models.BlockedDate{},
		&models.BlockedSlot{},
		&models.Booking{},
		&models.ServiceBid{},
		&models.ProviderBid{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notifier := &recordingNotifier{}
	return NewEngine(db, notifier), db, notifier
}

func createUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createService(t *testing.T, db *gorm.DB, providerID uint, name string, cost float64) models.Service {
	t.Helper()
	service := models.Service{Name: name, Cost: cost, ProviderID: providerID}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("create service %s: %v", name, err)
	}
	return service
}

func minuteOf(t *testing.T, label string) int {
	t.Helper()
	minute, err := models.ParseClock(label)
	if err != nil {
		t.Fatalf("parse %q: %v", label, err)
	}
	return minute
}
