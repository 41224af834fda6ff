// Package main is the entrypoint for the rainwatch binary.
//
// Rainwatch runs one check-and-notify cycle and exits: it fetches the hourly
// precipitation forecast for the configured point, filters it against the
// rain threshold, and posts a Discord webhook notification when rain is
// expected. Any recurring execution is the responsibility of an external
// timer (cron, systemd, EventBridge); the process itself never loops.
//
// Exit codes:
//
//	0 - check completed (rain or no rain; includes skipped delivery)
//	1 - configuration or forecast fetch failure
//	2 - rain detected but webhook delivery failed
package main

import (
	"context"
	"log/slog"
	"os"

	"rainwatch/internal/alert"
	"rainwatch/internal/config"
	"rainwatch/internal/forecast"
	"rainwatch/internal/notify"
	"rainwatch/internal/types"
)

const (
	exitOK            = 0
	exitCheckFailed   = 1
	exitDeliveryError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err.Error())
		return exitCheckFailed
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	if !cfg.Webhook.Configured() {
		logger.Warn("DISCORD_WEBHOOK_URL environment variable is not set, notifications will be skipped",
			"hint", "export DISCORD_WEBHOOK_URL='https://discord.com/api/webhooks/...'",
		)
	}

	source, err := forecast.NewClient(forecast.ClientConfig{
		BaseURL:  cfg.APIBaseURL,
		Timezone: cfg.Timezone,
		Timeout:  cfg.FetchTimeout,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to initialize forecast client", "error", err.Error())
		return exitCheckFailed
	}

	notifier := notify.NewWebhookNotifier(cfg.Webhook, logger)
	checker := alert.NewChecker(cfg, source, notifier, logger)

	outcome, err := checker.Run(context.Background())
	if err != nil {
		logger.Error("precipitation check failed", "error", err.Error())
		return exitCheckFailed
	}

	if outcome.RainDetected && outcome.Delivery != nil && outcome.Delivery.Status != types.DeliveryStatusSent {
		return exitDeliveryError
	}

	return exitOK
}

// parseLogLevel maps the LOG_LEVEL config value to a slog level, defaulting
// to Info on unknown values.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
