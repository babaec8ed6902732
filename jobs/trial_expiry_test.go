package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socdash/socdash/internal/accounts"
	"github.com/socdash/socdash/internal/shared"
)

type stubExpirer struct {
	expired []uuid.UUID
	err     error
}

func (s *stubExpirer) ExpireTrial(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.expired = append(s.expired, id)
	return &accounts.User{ID: id, Email: "trial@x.com", IsTrial: true}, nil
}

type stubEnqueuer struct {
	payloads []SendEmailPayload
}

func (s *stubEnqueuer) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

func mustTask(t *testing.T, payload TrialExpirePayload) *asynq.Task {
	t.Helper()
	task, err := NewTrialExpireTask(payload)
	require.NoError(t, err)
	return task
}

func TestTrialExpiryHandleExpiresAndNotifies(t *testing.T) {
	expirer := &stubExpirer{}
	enqueuer := &stubEnqueuer{}
	job := NewTrialExpiryJob(expirer, enqueuer, slog.Default())

	id := uuid.New()
	err := job.Handle(context.Background(), mustTask(t, TrialExpirePayload{UserID: id, Email: "trial@x.com"}))
	require.NoError(t, err)

	require.Len(t, expirer.expired, 1)
	assert.Equal(t, id, expirer.expired[0])
	require.Len(t, enqueuer.payloads, 1)
	assert.Equal(t, "trial@x.com", enqueuer.payloads[0].To)
	assert.Contains(t, enqueuer.payloads[0].Subject, "trial has ended")
}

func TestTrialExpiryHandleSwallowsDeletedAccount(t *testing.T) {
	expirer := &stubExpirer{err: shared.ErrNotFound}
	enqueuer := &stubEnqueuer{}
	job := NewTrialExpiryJob(expirer, enqueuer, slog.Default())

	err := job.Handle(context.Background(), mustTask(t, TrialExpirePayload{UserID: uuid.New()}))
	require.NoError(t, err, "deleted account must not fail the task")
	assert.Empty(t, enqueuer.payloads)
}

func TestTrialExpiryHandleSurfacesStoreFailure(t *testing.T) {
	expirer := &stubExpirer{err: errors.New("db down")}
	job := NewTrialExpiryJob(expirer, &stubEnqueuer{}, slog.Default())

	err := job.Handle(context.Background(), mustTask(t, TrialExpirePayload{UserID: uuid.New()}))
	require.Error(t, err)
}

func TestTrialExpiryHandleBadPayload(t *testing.T) {
	job := NewTrialExpiryJob(&stubExpirer{}, &stubEnqueuer{}, slog.Default())
	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeTrialExpire, []byte("not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestTrialExpireTaskID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "trial:expire:6ba7b810-9dad-11d1-80b4-00c04fd430c8", TrialExpireTaskID(id))
}

type stubJobMailer struct {
	sent []SendEmailPayload
	err  error
}

func (s *stubJobMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, SendEmailPayload{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func TestSendEmailHandleDeliversOnce(t *testing.T) {
	mailer := &stubJobMailer{}
	job := NewSendEmailJob(mailer, slog.Default())

	task, err := NewSendEmailTask(SendEmailPayload{To: "a@x.com", Subject: "s", Body: "<p>b</p>"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].To)
}

func TestSendEmailHandleSurfacesTransportFailure(t *testing.T) {
	mailer := &stubJobMailer{err: errors.New("smtp down")}
	job := NewSendEmailJob(mailer, slog.Default())

	task, err := NewSendEmailTask(SendEmailPayload{To: "a@x.com", Subject: "s", Body: "b"})
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}

func TestTrialExpirePayloadRoundTrip(t *testing.T) {
	id := uuid.New()
	task := mustTask(t, TrialExpirePayload{UserID: id, Email: "e@x.com"})

	var decoded TrialExpirePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, id, decoded.UserID)
	assert.Equal(t, "e@x.com", decoded.Email)
}
