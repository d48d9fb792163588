package auth

import (
	"time"

	"github.com/royalcarriage/platform/internal/shared"
)

// User is the identity record backing authentication. The row is owned by
// the users table; this package reads it and checks credentials against it.
type User struct {
	ID             string
	Email          string
	DisplayName    string
	PasswordHash   string
	Role           string
	OrganizationID string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity converts the user into the context identity handlers consume.
func (u *User) Identity() *shared.Identity {
	if u == nil {
		return nil
	}
	return &shared.Identity{
		ID:             u.ID,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		IsActive:       u.IsActive,
	}
}
