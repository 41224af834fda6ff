// Package alert implements the check-and-notify cycle: fetch the hourly
// forecast, filter it against the precipitation threshold, and deliver a
// webhook notification when rain is expected.
package alert

import (
	"context"
	"fmt"
	"log/slog"

	"rainwatch/internal/config"
	"rainwatch/internal/forecast"
	"rainwatch/internal/types"
)

// ForecastSource abstracts the forecast fetcher for testability.
type ForecastSource interface {
	Fetch(ctx context.Context, lat, lon float64, hours int) ([]types.ForecastPoint, error)
}

// Notifier abstracts the webhook delivery channel for testability.
type Notifier interface {
	Configured() bool
	Notify(ctx context.Context, alert *types.RainAlert) (*types.DeliveryResult, error)
}

// Checker runs one linear check-and-notify cycle. It has no retry, no
// backoff, and no idempotence guarantee: running it twice against the same
// forecast data sends two separate notifications.
type Checker struct {
	cfg      *config.Config
	source   ForecastSource
	notifier Notifier
	logger   *slog.Logger
}

// NewChecker wires a Checker from its dependencies.
func NewChecker(cfg *config.Config, source ForecastSource, notifier Notifier, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one cycle: fetch, filter, notify.
//
// A fetch failure is returned as an error and is never treated as "no rain
// detected". A delivery failure does not flip Outcome.RainDetected: rain was
// still detected even if the webhook endpoint rejected the payload.
func (c *Checker) Run(ctx context.Context) (types.Outcome, error) {
	c.logger.InfoContext(ctx, "checking precipitation forecast",
		"latitude", c.cfg.Latitude,
		"longitude", c.cfg.Longitude,
		"threshold_mm", c.cfg.RainThreshold,
		"lookahead_hours", c.cfg.LookaheadHours,
	)

	points, err := c.source.Fetch(ctx, c.cfg.Latitude, c.cfg.Longitude, c.cfg.LookaheadHours)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to fetch forecast data", "error", err.Error())
		return types.Outcome{}, fmt.Errorf("fetch forecast: %w", err)
	}

	if len(points) == 0 {
		// The API answered but no hourly buckets were due.
		c.logger.InfoContext(ctx, "no forecast data returned")
		return types.Outcome{}, nil
	}

	matches := forecast.AboveThreshold(points, c.cfg.RainThreshold)
	if len(matches) == 0 {
		c.logger.InfoContext(ctx, "no rain expected")
		return types.Outcome{}, nil
	}

	c.logger.InfoContext(ctx, "rain expected", "occurrences", len(matches))
	for _, m := range matches {
		c.logger.InfoContext(ctx, "rain forecast match",
			"time", m.Time.Format("15:04"),
			"precipitation_mm", m.Precipitation,
			"weather", forecast.DescribeWeatherCode(m.WeatherCode),
		)
	}

	outcome := types.Outcome{
		RainDetected: true,
		Matches:      matches,
	}

	if !c.notifier.Configured() {
		c.logger.InfoContext(ctx, "notification skipped, webhook URL is not configured")
		outcome.DeliverySkipped = true
		return outcome, nil
	}

	result, err := c.notifier.Notify(ctx, &types.RainAlert{
		Points:        matches,
		Latitude:      c.cfg.Latitude,
		Longitude:     c.cfg.Longitude,
		LocationLabel: c.cfg.LocationLabel,
	})
	outcome.Delivery = result
	if err != nil {
		// Rain was detected regardless of delivery; surface the failure via
		// the Delivery result and log, not via the returned error.
		c.logger.ErrorContext(ctx, "webhook notification failed", "error", err.Error())
	}

	return outcome, nil
}
