package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client submits jobs to the queue and can withdraw a pending trial expiry.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewClient constructs an Asynq client plus inspector.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{
		client:    asynq.NewClient(redisOpts),
		inspector: asynq.NewInspector(redisOpts),
	}
}

// ScheduleTrialExpiry enqueues the deferred deactivation for a trial account.
// One attempt only; a failed run is logged by the worker, nobody retries.
func (c *Client) ScheduleTrialExpiry(ctx context.Context, userID uuid.UUID, email string, delay time.Duration) error {
	task, err := NewTrialExpireTask(TrialExpirePayload{UserID: userID, Email: email})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.TaskID(TrialExpireTaskID(userID)),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(0),
	)
	return err
}

// CancelTrialExpiry removes a pending expiry task. A task that never existed
// or already ran is not an error.
func (c *Client) CancelTrialExpiry(ctx context.Context, userID uuid.UUID) error {
	err := c.inspector.DeleteTask(QueueDefault, TrialExpireTaskID(userID))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return err
	}
	return nil
}

// EnqueueSendEmail enqueues a one-shot email delivery.
func (c *Client) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) error {
	task, err := NewSendEmailTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(0))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	if err := c.inspector.Close(); err != nil {
		_ = c.client.Close()
		return err
	}
	return c.client.Close()
}
