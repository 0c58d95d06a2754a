package users

import (
	"time"

	"github.com/solmak-erp/solmak-erp/internal/shared"
)

// User represents a user account owned by a tenant.
type User struct {
	ID           string      `json:"id"`
	TenantID     string      `json:"tenantId"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         shared.Role `json:"role"`
	Permissions  []string    `json:"permissions"`
	ThemeColor   string      `json:"themeColor,omitempty"`
	Layout       string      `json:"layout,omitempty"`
	PasswordHash string      `json:"-"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Actor converts the user record into the shared actor identity.
func (u User) Actor() shared.Actor {
	return shared.Actor{
		UserID:      u.ID,
		TenantID:    u.TenantID,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}
