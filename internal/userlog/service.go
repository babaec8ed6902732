package userlog

import (
	"context"
	"errors"
)

// Service coordinates reads and writes of the user log.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends one entry. A failed append propagates to the caller; the
// login/logout handlers deliberately let it fail the request.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	if entry.Action != ActionLogin && entry.Action != ActionLogout {
		return errors.New("userlog: unknown action " + entry.Action)
	}
	return s.repo.Insert(ctx, entry)
}

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}
