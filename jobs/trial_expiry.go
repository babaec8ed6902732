package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/socdash/socdash/internal/accounts"
	"github.com/socdash/socdash/internal/shared"
)

// TrialExpirer deactivates a trial account.
type TrialExpirer interface {
	ExpireTrial(ctx context.Context, id uuid.UUID) (*accounts.User, error)
}

// EmailEnqueuer hands a notification off to the mail queue.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) error
}

// TrialExpiryJob processes TaskTypeTrialExpire tasks.
type TrialExpiryJob struct {
	expirer  TrialExpirer
	enqueuer EmailEnqueuer
	logger   *slog.Logger
}

// NewTrialExpiryJob constructs the job.
func NewTrialExpiryJob(expirer TrialExpirer, enqueuer EmailEnqueuer, logger *slog.Logger) *TrialExpiryJob {
	return &TrialExpiryJob{expirer: expirer, enqueuer: enqueuer, logger: logger}
}

// Handle deactivates the trial account named in the payload. An account that
// was deleted before the window ended is logged and swallowed; nobody is
// waiting on this task.
func (j *TrialExpiryJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload TrialExpirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	user, err := j.expirer.ExpireTrial(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			j.logger.Info("trial expiry: account already gone", slog.String("user_id", payload.UserID.String()))
			return nil
		}
		j.logger.Error("trial expiry", slog.String("user_id", payload.UserID.String()), slog.Any("error", err))
		return err
	}

	if j.enqueuer != nil {
		notice := SendEmailPayload{
			To:      user.Email,
			Subject: "Your SOC Dashboard trial has ended",
			Body: fmt.Sprintf(`<p>Hello,</p>
<p>Your trial access to SOC Dashboard has ended and the account <b>%s</b> has been deactivated.</p>
<p>Contact us if you would like to keep using the dashboard.</p>`, user.Email),
		}
		if err := j.enqueuer.EnqueueSendEmail(ctx, notice); err != nil {
			j.logger.Warn("enqueue trial-ended notice", slog.String("email", user.Email), slog.Any("error", err))
		}
	}
	return nil
}

// Mailer delivers one email per call.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SendEmailJob processes TaskTypeSendEmail tasks with a single delivery
// attempt each.
type SendEmailJob struct {
	mailer Mailer
	logger *slog.Logger
}

// NewSendEmailJob constructs the job.
func NewSendEmailJob(mailer Mailer, logger *slog.Logger) *SendEmailJob {
	return &SendEmailJob{mailer: mailer, logger: logger}
}

// Handle delivers the email once. Tasks are enqueued with MaxRetry(0), so a
// returned error only marks the task failed.
func (j *SendEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.mailer.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		j.logger.Error("send email task", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	return nil
}
