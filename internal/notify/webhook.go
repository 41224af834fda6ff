// Package notify implements the Discord webhook notification channel: the
// embed payload formatter and the synchronous delivery client.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"rainwatch/internal/config"
	"rainwatch/internal/types"
)

// maxResponseBodyRead limits how much of a response body we read for error
// messages.
const maxResponseBodyRead = 4096

// WebhookNotifier delivers rain alerts to a configured webhook endpoint via
// a single synchronous HTTP POST. It performs no retry; transient failures
// are reported through DeliveryResult.Retryable for the caller to act on.
type WebhookNotifier struct {
	cfg        config.WebhookConfig
	formatter  *DiscordFormatter
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier from the webhook config.
func NewWebhookNotifier(cfg config.WebhookConfig, logger *slog.Logger) *WebhookNotifier {
	return NewWebhookNotifierWithClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWebhookNotifierWithClient creates a WebhookNotifier with a
// caller-supplied HTTP client. This constructor exists for testing.
func NewWebhookNotifierWithClient(cfg config.WebhookConfig, httpClient *http.Client, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		cfg:        cfg,
		formatter:  NewDiscordFormatter(),
		httpClient: httpClient,
		logger:     logger,
	}
}

// SetFormatter overrides the payload formatter, primarily so tests can
// inject a fixed clock.
func (w *WebhookNotifier) SetFormatter(f *DiscordFormatter) {
	w.formatter = f
}

// Configured reports whether a webhook endpoint is set.
func (w *WebhookNotifier) Configured() bool {
	return w.cfg.Configured()
}

// Notify formats the alert and POSTs it to the configured endpoint.
//
// When no endpoint is configured it short-circuits: no request is made, a
// warning is logged, and a typed webhook_not_configured error is returned.
// Delivery failures (network errors, timeouts, non-2xx) are logged and
// returned as a failed DeliveryResult alongside a typed
// webhook_delivery_failed error.
func (w *WebhookNotifier) Notify(ctx context.Context, alert *types.RainAlert) (*types.DeliveryResult, error) {
	if !w.Configured() {
		w.logger.WarnContext(ctx, "webhook URL is not configured, notification not sent")
		return nil, types.NewAppError(types.ErrCodeWebhookNotConfigured, "webhook URL is not configured", nil)
	}

	payload, err := w.formatter.Format(alert)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeWebhookDelivery, "failed to format webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeWebhookDelivery, "failed to create webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", w.cfg.UserAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.ErrorContext(ctx, "webhook network error", "error", err.Error())
		result := &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: fmt.Sprintf("network_error: %v", err),
			Retryable:     true,
		}
		return result, types.NewAppError(types.ErrCodeWebhookDelivery, "webhook request failed", err)
	}
	defer resp.Body.Close()

	// Read a bounded slice of the body for failure diagnostics.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyRead))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		reason := fmt.Sprintf("status_%d: %s", resp.StatusCode, truncateBody(body))

		w.logger.ErrorContext(ctx, "webhook delivery failed",
			"status", resp.StatusCode,
			"body", truncateBody(body),
		)
		result := &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: reason,
			Retryable:     retryable,
		}
		return result, types.NewAppError(
			types.ErrCodeWebhookDelivery,
			fmt.Sprintf("webhook endpoint returned %d", resp.StatusCode),
			nil,
		)
	}

	providerMsgID := extractProviderMessageID(resp)

	w.logger.InfoContext(ctx, "webhook notification sent successfully",
		"status", resp.StatusCode,
		"provider_message_id", providerMsgID,
	)

	return &types.DeliveryResult{
		Status:            types.DeliveryStatusSent,
		ProviderMessageID: providerMsgID,
	}, nil
}

// extractProviderMessageID finds a provider-assigned request ID from the
// response headers, falling back to a synthetic ID.
func extractProviderMessageID(resp *http.Response) string {
	// Go's http.Header.Get is case-insensitive, so "X-Request-Id" matches
	// "X-Request-ID" as well.
	if reqID := resp.Header.Get("X-Request-Id"); reqID != "" {
		return reqID
	}
	return generateSyntheticID(resp.StatusCode)
}

// generateSyntheticID creates a traceable reference when the endpoint does
// not return a request ID.
//
// Format: generic-{status}-{timestamp}-{uuid_short}
func generateSyntheticID(statusCode int) string {
	return fmt.Sprintf("generic-%d-%d-%s",
		statusCode,
		time.Now().Unix(),
		uuid.New().String()[:8],
	)
}

// truncateBody limits response bodies in logs and failure reasons.
func truncateBody(body []byte) string {
	const maxLen = 200
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
