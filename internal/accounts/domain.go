// Package accounts owns the user invitation, activation and trial lifecycle.
package accounts

import (
	"time"

	"github.com/google/uuid"
)

// User represents a dashboard account. A record starts life as an invitation:
// not activated, no credentials, a pending single-use token. Activation sets
// username/name/password and clears the token.
type User struct {
	ID              uuid.UUID
	Email           string
	Username        *string
	Name            *string
	PasswordHash    *string
	Role            string
	IsActivated     bool
	ActivationToken *string
	IsTrial         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Summary is the listing projection. Credentials and the activation token are
// never exposed here.
type Summary struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    *string   `json:"username"`
	Name        *string   `json:"name"`
	Role        string    `json:"role"`
	IsActivated bool      `json:"isActivated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summarize strips a user down to its listing projection.
func (u User) Summarize() Summary {
	return Summary{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		IsActivated: u.IsActivated,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
