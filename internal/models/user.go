package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents an account that can sign in to the admin area.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Roles returns the user's role set. Every user implicitly holds the
// base "user" role in addition to any elevated role.
func (u *User) Roles() []string {
	if u.Role == RoleUser || u.Role == "" {
		return []string{string(RoleUser)}
	}
	return []string{string(u.Role), string(RoleUser)}
}
