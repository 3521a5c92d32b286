// Package notify posts a webhook when a cleanup run finishes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fenilsonani/tidytree/internal/cleaner"
	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/logging"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

// Message types
const (
	TypeCleanupSuccess = "cleanup_success"
	TypeCleanupFailure = "cleanup_failure"
)

// Message is the webhook payload
type Message struct {
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Notifier sends cleanup notifications
type Notifier struct {
	config config.NotifyConfig
	client *http.Client
	logger *logging.Logger
	now    func() time.Time
}

// New creates a notifier. It returns nil when no webhook is configured,
// and a nil Notifier ignores every call.
func New(cfg config.NotifyConfig, logger *logging.Logger) *Notifier {
	if cfg.Webhook.URL == "" {
		return nil
	}

	timeout := cfg.Webhook.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Notifier{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		now:    time.Now,
	}
}

// CleanupFinished reports a finished deletion batch. Delivery failures are
// logged and returned; they never affect the batch itself.
func (n *Notifier) CleanupFinished(ctx context.Context, mode cleaner.Mode, result *cleaner.DeleteResult) error {
	if n == nil || result == nil {
		return nil
	}

	failed := result.FailedCount > 0
	if failed && !n.config.OnFailure {
		return nil
	}
	if !failed && !n.config.OnSuccess {
		return nil
	}

	msg := &Message{
		Timestamp: n.now(),
		Type:      TypeCleanupSuccess,
		Data: map[string]interface{}{
			"mode":        mode.String(),
			"deleted":     result.DeletedCount,
			"failed":      result.FailedCount,
			"bytes_freed": result.BytesFreed,
			"duration":    result.Duration.String(),
		},
	}

	if failed {
		msg.Type = TypeCleanupFailure
		msg.Title = "Cleanup finished with errors"
		msg.Message = fmt.Sprintf("Deleted %d items, %d failed, freed %s",
			result.DeletedCount, result.FailedCount, utils.FormatBytes(result.BytesFreed))
	} else {
		msg.Title = "Cleanup completed"
		msg.Message = fmt.Sprintf("Deleted %d items, freed %s in %s",
			result.DeletedCount, utils.FormatBytes(result.BytesFreed), result.Duration.Round(time.Millisecond))
	}

	if err := n.sendWebhook(ctx, msg); err != nil {
		n.logger.Error("Failed to send webhook notification: %v", err)
		return err
	}

	n.logger.Info("Webhook notification sent: %s", msg.Title)
	return nil
}

func (n *Notifier) sendWebhook(ctx context.Context, msg *Message) error {
	cfg := &n.config.Webhook

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
