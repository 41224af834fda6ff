// Package config defines the process-wide configuration for Rainwatch.
// Configuration is loaded once at startup and is immutable thereafter.
// Components receive the config (or the subset they need) explicitly; none
// of them reads ambient environment state, so tests can run with synthetic
// configurations.
package config

import "time"

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified.
//
// Latitude and longitude are deliberately not range-validated: out-of-range
// coordinates are passed through to the upstream API and surface as an
// upstream error.
type Config struct {
	// Monitored location.
	Latitude      float64 `envconfig:"RAIN_LATITUDE" default:"35.6895"`
	Longitude     float64 `envconfig:"RAIN_LONGITUDE" default:"139.6917"`
	LocationLabel string  `envconfig:"RAIN_LOCATION_LABEL" default:"東京都新宿区付近"`

	// Alerting rule.
	RainThreshold  float64 `envconfig:"RAIN_THRESHOLD" default:"0.5" validate:"min=0"`
	LookaheadHours int     `envconfig:"RAIN_HOURS_TO_CHECK" default:"1" validate:"min=1"`

	// Forecast upstream.
	APIBaseURL   string        `envconfig:"RAIN_API_BASE_URL" default:"https://api.open-meteo.com/v1/jma" validate:"url"`
	Timezone     string        `envconfig:"RAIN_TIMEZONE" default:"Asia/Tokyo"`
	FetchTimeout time.Duration `envconfig:"RAIN_HTTP_TIMEOUT" default:"10s"`

	// Webhook delivery. An empty URL is not fatal: the check still runs and
	// logs, only delivery is skipped.
	Webhook WebhookConfig

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// WebhookConfig holds settings for outbound webhook delivery.
type WebhookConfig struct {
	URL       string        `envconfig:"DISCORD_WEBHOOK_URL" validate:"omitempty,url"`
	UserAgent string        `envconfig:"WEBHOOK_USER_AGENT" default:"Rainwatch-Webhook/1.0"`
	Timeout   time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
}

// Configured reports whether a webhook endpoint is set.
func (c WebhookConfig) Configured() bool {
	return c.URL != ""
}

// ConfigErrorType categorizes configuration loading failures to aid
// debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
