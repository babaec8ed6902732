package auth

import "github.com/google/uuid"

// Credential is the slice of a user record that login needs. PasswordHash is
// nil for accounts that were invited but never activated.
type Credential struct {
	ID           uuid.UUID
	Email        *string
	Username     string
	Role         string
	PasswordHash *string
}
