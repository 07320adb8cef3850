package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultSendTimeoutMS = 10000
	minSendTimeoutMS     = 500
	maxSendTimeoutMS     = 30000
)

// Sender performs the actual webhook HTTP delivery.
type Sender struct {
	httpClient *http.Client
}

// NewSender creates a sender with the given timeout in milliseconds.
func NewSender(timeoutMS int) *Sender {
	if timeoutMS < minSendTimeoutMS || timeoutMS > maxSendTimeoutMS {
		timeoutMS = defaultSendTimeoutMS
	}
	return &Sender{
		httpClient: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
	}
}

// Send posts a rendered webhook body to a Discord webhook URL.
func (s *Sender) Send(ctx context.Context, url string, body []byte) error {
	if s == nil || s.httpClient == nil {
		return fmt.Errorf("sender not initialized")
	}
	if url == "" {
		return fmt.Errorf("webhook url empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Discord answers 204 on success; drain so the connection is reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery failed with status %d", resp.StatusCode)
	}
	return nil
}
