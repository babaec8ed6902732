// Package jobs wires background work through Asynq: the deferred trial
// expiry and one-shot email notifications.
package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeTrialExpire deactivates a trial account after its window ends.
	TaskTypeTrialExpire = "trial:expire"
	// TaskTypeSendEmail delivers one transactional email.
	TaskTypeSendEmail = "mail:send"
)

// TrialExpirePayload identifies the account whose trial window ended.
type TrialExpirePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// TrialExpireTaskID derives the deterministic task id for a user's pending
// expiry. Keying the task by user id is what makes it cancellable when the
// account is deleted before the window ends.
func TrialExpireTaskID(userID uuid.UUID) string {
	return TaskTypeTrialExpire + ":" + userID.String()
}

// NewTrialExpireTask constructs an Asynq task.
func NewTrialExpireTask(payload TrialExpirePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTrialExpire, data), nil
}

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}
