package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Sender posts messages to a Google Chat space through an incoming webhook.
// Delivery is best effort: callers log failures and carry on, so a dead
// webhook never changes a monitor's exit code.
type Sender struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSender creates a webhook sender. An empty URL produces a disabled
// sender; callers check Enabled before building messages.
func NewSender(webhookURL string, logger *slog.Logger) *Sender {
	return &Sender{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send posts one message to the webhook. Anything other than HTTP 200 is an
// error carrying the status and a snippet of the response body.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	bodyBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}

	s.logger.Debug("message delivered to google chat", "payload_bytes", len(bodyBytes))
	return nil
}
