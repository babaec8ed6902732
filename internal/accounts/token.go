package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewActivationToken returns an opaque single-use token. 16 random bytes is
// enough that collisions between outstanding invitations are negligible and
// the value cannot be guessed. Tokens do not expire; they stay valid until
// redeemed or the owning record is deleted.
func NewActivationToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("accounts: generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
