package types

import "time"

// ForecastPoint is one hourly precipitation prediction for the monitored
// location. Points are created by the forecast client and never mutated.
type ForecastPoint struct {
	// Time is the start of the hourly bucket, in the configured forecast
	// timezone.
	Time time.Time `json:"time"`

	// Precipitation is the predicted amount for the bucket, in millimeters.
	Precipitation float64 `json:"precipitation_mm"`

	// WeatherCode is the WMO condition code reported for the bucket.
	WeatherCode int `json:"weather_code"`
}

// RainAlert bundles the forecast points that crossed the threshold with the
// location metadata needed to render a notification. It exists only for the
// duration of one check-and-notify cycle.
type RainAlert struct {
	Points        []ForecastPoint
	Latitude      float64
	Longitude     float64
	LocationLabel string
}

// DeliveryStatus is the terminal state of one webhook delivery attempt.
type DeliveryStatus string

const (
	// DeliveryStatusSent indicates the webhook endpoint accepted the payload.
	DeliveryStatusSent DeliveryStatus = "sent"
	// DeliveryStatusFailed indicates the delivery did not succeed.
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// DeliveryResult captures the outcome of a webhook delivery attempt so
// callers can assert on failure causes instead of inferring them from a
// boolean.
type DeliveryResult struct {
	Status            DeliveryStatus `json:"status"`
	ProviderMessageID string         `json:"provider_message_id,omitempty"`
	FailureReason     string         `json:"failure_reason,omitempty"`

	// Retryable marks transient failures (timeouts, 429, 5xx). The checker
	// performs no retry itself; the flag is informational.
	Retryable bool `json:"retryable"`
}

// Outcome is the result of one check-and-notify cycle. A fetch failure is
// reported as an error by the checker, never folded into a zero Outcome, so
// "no rain" and "no data" stay distinguishable.
type Outcome struct {
	// RainDetected is true when at least one forecast point met the
	// threshold. It is not affected by delivery failures.
	RainDetected bool

	// Matches holds the points that met the threshold, in forecast order.
	Matches []ForecastPoint

	// Delivery describes the webhook attempt, if one was made.
	Delivery *DeliveryResult

	// DeliverySkipped is true when rain was detected but no webhook endpoint
	// is configured.
	DeliverySkipped bool
}
