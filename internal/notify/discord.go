package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

const (
	webhookTimeout = 10 * time.Second
	// Discord rejects message content longer than this
	maxContentRunes = 2000
)

// Discord posts plain-text messages to a Discord webhook
type Discord struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDiscord creates a notifier. An empty webhook URL makes Notify a no-op.
func NewDiscord(webhookURL string, logger *zap.Logger) *Discord {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: webhookTimeout},
		logger:     logger,
	}
}

// Enabled reports whether a webhook URL is configured
func (d *Discord) Enabled() bool {
	return d.webhookURL != ""
}

// Notify sends message as the webhook "content". Any 2xx status is success.
func (d *Discord) Notify(ctx context.Context, message string) error {
	if d.webhookURL == "" {
		d.logger.Debug("Discord: no webhook configured, dropping message", zap.String("message", message))
		return nil
	}

	body, err := json.Marshal(map[string]string{"content": clip(message)})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &errors.TransportError{Service: "discord", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errors.TransportError{Service: "discord", StatusCode: resp.StatusCode, Err: fmt.Errorf("webhook rejected message")}
	}
	d.logger.Debug("Discord: notification sent", zap.Int("status", resp.StatusCode))
	return nil
}

func clip(message string) string {
	if utf8.RuneCountInString(message) <= maxContentRunes {
		return message
	}
	runes := []rune(message)
	return string(runes[:maxContentRunes-1]) + "…"
}
