package shared

import "errors"

// Sentinel errors shared across domain packages. The capitalised messages are
// returned to the frontend verbatim, so their wording is part of the wire
// contract.
var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken indicates an invitation already exists for the email.
	ErrEmailTaken = errors.New("Email already exists")
	// ErrInvalidToken indicates an unknown or already redeemed activation token.
	ErrInvalidToken = errors.New("Invalid or expired token")
	// ErrUserNotFound indicates login with an unknown username.
	ErrUserNotFound = errors.New("User not found")
	// ErrNoPassword indicates login against an account that never activated.
	ErrNoPassword = errors.New("User has no password set")
	// ErrInvalidCredentials indicates a password mismatch.
	ErrInvalidCredentials = errors.New("Invalid credentials")
)
