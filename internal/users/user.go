// Package users implements the identity domain: registration, login,
// token verification, activity tracking, and the projections the admin
// dashboard reads.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. The credential hash never leaves the
// repository layer.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Coren      *string    `json:"coren"`
	Specialty  *string    `json:"specialty"`
	Admin      bool       `json:"is_admin"`
	Active     bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastActive *time.Time `json:"last_active"`
}

// Summary is the slim projection of a user embedded in aggregated reports.
type Summary struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LastActive *time.Time `json:"last_active"`
}

// RegisterCommand carries the data needed to create an account.
// Coren is the nursing council registration number; it and Specialty are
// optional professional metadata.
type RegisterCommand struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Name      string  `json:"name"`
	Coren     *string `json:"coren"`
	Specialty *string `json:"specialty"`
}

// LoginCommand carries login credentials.
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the login response: a signed bearer token plus the account it
// belongs to.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
