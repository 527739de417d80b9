package models

import (
	"time"
)

type User struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name"`
	Email            string         `json:"email" gorm:"unique"`
	Password         string         `json:"password,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	RoleID           uint           `json:"role_id"`
	Role             Role           `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	ProvidedServices []Service      `json:"provided_services,omitempty" gorm:"foreignKey:ProviderID"`
	Bookings         []Booking      `json:"bookings,omitempty" gorm:"foreignKey:ProviderID"`
	CustomerBookings []Booking      `json:"customer_bookings,omitempty" gorm:"foreignKey:CustomerID"`
	WorkingHours     []WorkingHours `json:"working_hours,omitempty" gorm:"foreignKey:ProviderID"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
