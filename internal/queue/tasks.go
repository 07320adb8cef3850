package queue

import (
	"encoding/json"

	"github.com/vultos-swap/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskWebhookDispatch delivers a Discord webhook embed.
	TaskWebhookDispatch = constants.TaskWebhookDispatch
)

// WebhookDispatchPayload carries a rendered Discord embed message to
// the worker. The body is the full webhook JSON so the worker does not
// depend on domain state that may have changed since enqueue.
type WebhookDispatchPayload struct {
	Event string          `json:"event"`
	URL   string          `json:"url"`
	Body  json.RawMessage `json:"body"`
}

// NewWebhookDispatchTask creates a webhook delivery task.
func NewWebhookDispatchTask(payload WebhookDispatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebhookDispatch, body), nil
}
