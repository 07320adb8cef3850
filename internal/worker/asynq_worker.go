package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/provider"
	"github.com/vultos-swap/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles queued tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWebhookDispatch, c.handleWebhookDispatch)
}

func (c *Consumer) handleWebhookDispatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_webhook_dispatch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.WebhookDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_webhook_dispatch_unmarshal_failed", "error", err)
		return err
	}
	url := strings.TrimSpace(payload.URL)
	if url == "" || len(payload.Body) == 0 {
		logger.Debugw("worker_webhook_dispatch_skip_invalid_payload", "event", payload.Event)
		return nil
	}
	if c.WebhookSender == nil {
		logger.Warnw("worker_webhook_dispatch_skip_sender_nil", "event", payload.Event)
		return nil
	}
	if err := c.WebhookSender.Send(ctx, url, payload.Body); err != nil {
		logger.Warnw("worker_webhook_dispatch_send_failed", "event", payload.Event, "error", err)
		return err
	}
	logger.Infow("worker_webhook_dispatch_sent", "event", payload.Event)
	return nil
}
