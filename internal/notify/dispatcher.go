package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/queue"

	"github.com/hibiken/asynq"
)

// Dispatcher routes rendered webhook messages to their destination.
// With the queue available the message rides an asynq task with
// retries; otherwise it is delivered inline on a best effort basis.
type Dispatcher struct {
	queueClient *queue.Client
	sender      *Sender
	defaultURL  string
	staffURL    string
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(queueClient *queue.Client, sender *Sender, defaultURL, staffURL string) *Dispatcher {
	return &Dispatcher{
		queueClient: queueClient,
		sender:      sender,
		defaultURL:  strings.TrimSpace(defaultURL),
		staffURL:    strings.TrimSpace(staffURL),
	}
}

// Notify delivers a message to the affiliate channel. An empty url
// falls back to the system default; with neither set the event is
// dropped with a log line.
func (d *Dispatcher) Notify(ctx context.Context, event, url string, message WebhookMessage) {
	if d == nil {
		return
	}
	target := strings.TrimSpace(url)
	if target == "" {
		target = d.defaultURL
	}
	d.deliver(ctx, event, target, message)
}

// NotifyStaff delivers a message to the staff channel.
func (d *Dispatcher) NotifyStaff(ctx context.Context, event string, message WebhookMessage) {
	if d == nil {
		return
	}
	d.deliver(ctx, event, d.staffURL, message)
}

func (d *Dispatcher) deliver(ctx context.Context, event, url string, message WebhookMessage) {
	if url == "" {
		logger.Debugw("webhook_skipped_no_url", "event", event)
		return
	}
	body, err := json.Marshal(message)
	if err != nil {
		logger.Errorw("webhook_marshal_failed", "event", event, "error", err)
		return
	}

	if d.queueClient.Enabled() {
		err := d.queueClient.EnqueueWebhookDispatch(queue.WebhookDispatchPayload{
			Event: event,
			URL:   url,
			Body:  body,
		}, asynq.MaxRetry(5))
		if err != nil {
			logger.Errorw("webhook_enqueue_failed", "event", event, "error", err)
		}
		return
	}

	if err := d.sender.Send(ctx, url, body); err != nil {
		logger.Errorw("webhook_send_failed", "event", event, "error", err)
		return
	}
	logger.Infow("webhook_sent", "event", event)
}
