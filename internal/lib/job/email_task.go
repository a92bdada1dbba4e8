package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome routes welcome emails to handleWelcomeEmailTask.
	TaskWelcome = "email:welcome"
)

// WelcomeEmailPayload is stored in Redis with the task.
type WelcomeEmailPayload struct {
	To          string `json:"to"`
	ContactName string `json:"contact_name"`
}

// NewWelcomeEmailTask builds the task sent after a contact is created.
// It retries three times on the default queue and times out after 30s.
func NewWelcomeEmailTask(to, contactName string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:          to,
		ContactName: contactName,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
