package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/socdash/socdash/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates username/password credentials. The three failure
// modes carry distinct messages because the frontend shows them as-is.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Credential, error) {
	cred, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if cred.PasswordHash == nil {
		return nil, shared.ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*cred.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return cred, nil
}
