// Package users manages platform accounts: listing, role changes, and
// activation, all scoped by the caller's organization and rank.
package users

import (
	"time"

	"github.com/royalcarriage/platform/internal/shared"
)

// User is an account as the management surface sees it. Credentials never
// leave the auth package.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"displayName,omitempty"`
	Role           string    `json:"role"`
	OrganizationID string    `json:"organizationId"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Identity converts the user into the request-scoped identity shape used
// by the permission guards.
func (u *User) Identity() *shared.Identity {
	return &shared.Identity{
		ID:             u.ID,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		IsActive:       u.IsActive,
	}
}
