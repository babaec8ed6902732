package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/socdash/socdash/internal/shared"
)

// Mailer delivers one email per call. A transport failure surfaces to the
// caller; there are no retries.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// TrialScheduler manages the deferred trial-expiry task for an account. The
// task is keyed by user id so a pending expiry can be cancelled when the
// account is deleted first.
type TrialScheduler interface {
	ScheduleTrialExpiry(ctx context.Context, userID uuid.UUID, email string, delay time.Duration) error
	CancelTrialExpiry(ctx context.Context, userID uuid.UUID) error
}

const bcryptCost = 10

// Service orchestrates the invitation, activation and trial lifecycle.
type Service struct {
	repo      Repository
	mailer    Mailer
	scheduler TrialScheduler
	logger    *slog.Logger

	activationURL string
	trialDuration time.Duration
	trialRole     string
}

// ServiceConfig collects the lifecycle knobs sourced from app config.
type ServiceConfig struct {
	ActivationURL string
	TrialDuration time.Duration
	TrialRole     string
}

// NewService constructs a Service.
func NewService(repo Repository, mailer Mailer, scheduler TrialScheduler, logger *slog.Logger, cfg ServiceConfig) *Service {
	return &Service{
		repo:          repo,
		mailer:        mailer,
		scheduler:     scheduler,
		logger:        logger,
		activationURL: cfg.ActivationURL,
		trialDuration: cfg.TrialDuration,
		trialRole:     cfg.TrialRole,
	}
}

// CreateInvitation persists an invited record and emails the activation token.
// The row stays behind when delivery fails; the caller sees the error.
func (s *Service) CreateInvitation(ctx context.Context, email, role string) error {
	user, token, err := s.createInvited(ctx, email, role, false)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`<p>Hello,</p>
<p>You have been invited to SOC Dashboard as <strong>%s</strong>.</p>
<p>Please open the activation page at:</p>
<p><a href="%s">%s</a></p>
<p>And use the following token to activate your account:</p>
<p style="font-size: 18px;"><code>%s</code></p>
<p>This token is valid until used.</p>`, role, s.activationURL, s.activationURL, token)
	return s.deliver(ctx, user, "You're Invited to SOC Dashboard", body)
}

// CreateFreeTrial invites an address with the elevated trial role. The
// activation countdown starts at activation, not at invitation.
func (s *Service) CreateFreeTrial(ctx context.Context, email string) error {
	user, token, err := s.createInvited(ctx, email, s.trialRole, true)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s?token=%s", s.activationURL, token)
	minutes := int(s.trialDuration.Minutes())
	body := fmt.Sprintf(`<h2>You have been granted a %d-minute trial.</h2>
<p>Click the link below to activate your account:</p>
<p><a href="%s">%s</a></p>
<p><b>Note:</b> The trial starts when you activate your account and ends automatically %d minutes later.</p>
<p>Activation token: <b>%s</b></p>`, minutes, link, link, minutes, token)
	subject := fmt.Sprintf("Free Trial Invitation - %d Minutes", minutes)
	return s.deliver(ctx, user, subject, body)
}

// CreatePaidInvitation runs the payment step and then invites the address.
// Payment is a stub that always succeeds; it gates nothing real yet.
func (s *Service) CreatePaidInvitation(ctx context.Context, email, role string) error {
	s.logger.Info("processing payment", slog.String("email", email))
	// TODO: swap the stub for the real billing provider once one is chosen.
	s.logger.Info("payment successful", slog.String("email", email))

	user, token, err := s.createInvited(ctx, email, role, false)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`<h2>Thank you for your payment!</h2>
<p>Your account is almost ready. Please activate it using the token below:</p>
<p><a href="%s">%s</a></p>
<p><b>Activation Token:</b> %s</p>`, s.activationURL, s.activationURL, token)
	return s.deliver(ctx, user, "Payment Success - Activate Your SOC Dashboard Account", body)
}

// Activate redeems a token, sets credentials and marks the record active.
// Trial accounts additionally get their expiry scheduled.
func (s *Service) Activate(ctx context.Context, token, username, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("accounts: hash password: %w", err)
	}
	user, err := s.repo.ActivateByToken(ctx, token, ActivationParams{
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return err
	}
	if user.IsTrial {
		if err := s.scheduler.ScheduleTrialExpiry(ctx, user.ID, user.Email, s.trialDuration); err != nil {
			// Nobody is waiting on the expiry; the activation itself succeeded.
			s.logger.Error("schedule trial expiry", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		}
	}
	return nil
}

// ListUsers returns the listing projection for all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]Summary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summarize())
	}
	return summaries, nil
}

// DeleteUser removes an account and cancels any pending trial expiry. Log
// entries referencing the user are kept.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.scheduler.CancelTrialExpiry(ctx, id); err != nil {
		s.logger.Warn("cancel trial expiry", slog.String("user_id", id.String()), slog.Any("error", err))
	}
	return nil
}

// ExpireTrial deactivates a trial account. A missing row is reported as
// shared.ErrNotFound so the job layer can swallow it.
func (s *Service) ExpireTrial(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.ExpireTrial(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("accounts: expire trial: %w", err)
	}
	s.logger.Info("trial expired", slog.String("email", user.Email))
	return user, nil
}

func (s *Service) createInvited(ctx context.Context, email, role string, isTrial bool) (*User, string, error) {
	token, err := NewActivationToken()
	if err != nil {
		return nil, "", err
	}
	user := User{
		ID:              uuid.New(),
		Email:           email,
		Role:            role,
		ActivationToken: &token,
		IsTrial:         isTrial,
	}
	if err := s.repo.CreateInvited(ctx, user); err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *Service) deliver(ctx context.Context, user *User, subject, body string) error {
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		// The invited row is already persisted at this point; it stays behind
		// with no email ever reaching the user.
		s.logger.Error("send invitation email", slog.String("email", user.Email), slog.Any("error", err))
		return err
	}
	s.logger.Info("invitation email sent", slog.String("email", user.Email))
	return nil
}
