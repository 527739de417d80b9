package db

import (
	"fmt"
	"log"

	"github.com/priyanshsoni/handyhub/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	err := DB.AutoMigrate(
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
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRolesAndPermissions()

	fmt.Println("✅ Migrations applied successfully!")
}

func seedRolesAndPermissions() {
	roles := []models.Role{
		{Name: "admin", Description: "Administrator with full access"},
		{Name: "provider", Description: "Service provider who manages a calendar and bookings"},
		{Name: "client", Description: "Customer who books services and opens bid requests"},
	}
	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}

	permissions := []models.Permission{
		{Name: "create_booking", Description: "Create bookings", Resource: "bookings", Action: "create"},
		{Name: "read_bookings", Description: "View bookings", Resource: "bookings", Action: "read"},
		{Name: "update_booking", Description: "Update bookings", Resource: "bookings", Action: "update"},

		{Name: "manage_schedule", Description: "Manage working hours and blocks", Resource: "schedule", Action: "update"},
		{Name: "read_schedule", Description: "View schedules", Resource: "schedule", Action: "read"},

		{Name: "create_service", Description: "Create services", Resource: "services", Action: "create"},
		{Name: "update_service", Description: "Update services", Resource: "services", Action: "update"},
		{Name: "delete_service", Description: "Delete services", Resource: "services", Action: "delete"},

		{Name: "create_bid", Description: "Open bid requests", Resource: "bids", Action: "create"},
		{Name: "propose_bid", Description: "Submit proposals against bid requests", Resource: "bids", Action: "propose"},
		{Name: "accept_bid", Description: "Accept proposals", Resource: "bids", Action: "accept"},
	}
	for _, permission := range permissions {
		var existing models.Permission
		if DB.Where("name = ?", permission.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&permission)
		}
	}

	assign := func(roleName string, where func() []models.Permission) {
		var role models.Role
		if DB.Where("name = ?", roleName).First(&role).RowsAffected == 0 {
			return
		}
		perms := where()
		DB.Model(&role).Association("Permissions").Clear()
		DB.Model(&role).Association("Permissions").Append(perms)
	}

	assign("admin", func() []models.Permission {
		var all []models.Permission
		DB.Find(&all)
		return all
	})
	assign("provider", func() []models.Permission {
		var perms []models.Permission
		DB.Where("name IN ?", []string{
			"read_bookings", "update_booking",
			"manage_schedule", "read_schedule",
			"create_service", "update_service", "delete_service",
			"propose_bid",
		}).Find(&perms)
		return perms
	})
	assign("client", func() []models.Permission {
		var perms []models.Permission
		DB.Where("name IN ?", []string{
			"create_booking", "read_bookings", "update_booking",
			"read_schedule",
			"create_bid", "accept_bid",
		}).Find(&perms)
		return perms
	})
}
