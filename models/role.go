package models

import (
	"gorm.io/gorm"
)

// Role gates what a user may do. Three roles are seeded at migration time:
// admin, provider and client.
type Role struct {
	gorm.Model
	Name        string       `json:"name" gorm:"unique"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

// Permission is one (resource, action) pair a role may hold, e.g.
// ("bookings", "create") or ("schedule", "update").
type Permission struct {
	gorm.Model
	Name        string `json:"name" gorm:"unique"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Roles       []Role `json:"roles,omitempty" gorm:"many2many:role_permissions;"`
}

// Allows reports whether the role carries the (resource, action) pair.
// Permissions must be preloaded.
func (r *Role) Allows(resource, action string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
