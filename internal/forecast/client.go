// Package forecast implements the Open-Meteo JMA forecast client, the
// precipitation threshold filter, and the WMO weather-code translation
// table.
//
// The client performs one GET against the hourly forecast endpoint and
// parses the columnar response (parallel "time", "precipitation" and
// "weather_code" arrays) into an ordered slice of ForecastPoint. Outbound
// calls are routed through a circuit breaker with bounded retry so a flaky
// upstream does not hammer the API.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"rainwatch/internal/types"
)

// hourlyTimeLayout is the timestamp format used by the Open-Meteo hourly
// series: ISO-8601 local time without a UTC offset.
const hourlyTimeLayout = "2006-01-02T15:04"

// RetryPolicy configures the retry behavior for forecast fetches.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns sensible defaults for the forecast upstream.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		MinWait:    500 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

// ClientConfig carries the settings the forecast client needs. BaseURL and
// Timezone come from the process configuration; HTTPClient may be supplied
// by tests.
type ClientConfig struct {
	BaseURL     string
	Timezone    string
	Timeout     time.Duration
	RetryPolicy RetryPolicy
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client fetches hourly precipitation forecasts for a geographic point.
type Client struct {
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	baseURL     string
	timezone    string
	location    *time.Location
	retryPolicy RetryPolicy
	sleepFn     func(time.Duration) // for testability; defaults to time.Sleep
	logger      *slog.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithSleepFunc overrides the sleep function used between retries.
// This is intended for testing to avoid real delays.
func WithSleepFunc(fn func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.sleepFn = fn
	}
}

// NewClient creates a forecast Client. The configured timezone is both sent
// to the API (so hourly timestamps come back in local time) and used to
// parse those timestamps into zone-aware values.
func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("forecast client: base URL is required")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("forecast client: invalid timezone %q: %w", cfg.Timezone, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	retryPolicy := cfg.RetryPolicy
	if retryPolicy.MaxRetries == 0 && retryPolicy.MinWait == 0 {
		retryPolicy = DefaultRetryPolicy()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "forecast-upstream",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	c := &Client{
		httpClient:  httpClient,
		breaker:     cb,
		baseURL:     cfg.BaseURL,
		timezone:    cfg.Timezone,
		location:    loc,
		retryPolicy: retryPolicy,
		sleepFn:     time.Sleep,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// hourlySeries mirrors the parallel arrays of the Open-Meteo hourly block.
type hourlySeries struct {
	Time          []string  `json:"time"`
	Precipitation []float64 `json:"precipitation"`
	WeatherCode   []int     `json:"weather_code"`
}

// forecastResponse is the subset of the API response the client consumes.
type forecastResponse struct {
	Hourly hourlySeries `json:"hourly"`
}

// Fetch returns the hourly forecast points covering the next `hours` buckets
// starting from the current hour, in chronological order.
//
// Coordinates are not range-checked here; out-of-range values are passed
// through and surface as an upstream API error. Failures are returned as
// typed errors (never folded into an empty slice) so callers can tell
// "no data due" apart from "transport failed".
func (c *Client) Fetch(ctx context.Context, lat, lon float64, hours int) ([]types.ForecastPoint, error) {
	reqURL, err := c.buildURL(lat, lon, hours)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamForecast, "failed to build forecast request URL", err)
	}

	resp, err := c.do(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, types.NewAppError(
			types.ErrCodeUpstreamForecast,
			fmt.Sprintf("forecast API returned %d: %s", resp.StatusCode, body),
			nil,
		)
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, types.NewAppError(types.ErrCodeMalformedForecast, "failed to decode forecast response", err)
	}

	return c.parseHourly(decoded.Hourly)
}

// buildURL assembles the hourly forecast query for the given point.
func (c *Client) buildURL(lat, lon float64, hours int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("hourly", "precipitation,weather_code")
	q.Set("forecast_hours", strconv.Itoa(hours))
	q.Set("timezone", c.timezone)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// do executes the GET with circuit breaker wrapping and bounded retry on
// 429/5xx and network errors, respecting Retry-After headers. On success
// (any other status), the response is returned as-is and the caller owns
// the body.
func (c *Client) do(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	maxAttempts := 1 + c.retryPolicy.MaxRetries
	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeUpstreamForecast, "failed to create forecast request", err)
		}

		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, doErr := c.httpClient.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			// 429 and 5xx count as failures for the circuit breaker.
			if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
				return r, fmt.Errorf("upstream returned %d", r.StatusCode)
			}
			return r, nil
		})

		if err == nil {
			return resp, nil
		}
		lastErr = err

		// An open circuit breaker means the upstream is already known bad.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}

		var wait time.Duration
		if resp != nil {
			wait = c.computeBackoff(attempt, resp)
			resp.Body.Close()
		} else {
			wait = c.computeBackoff(attempt, nil)
		}

		if attempt < maxAttempts-1 {
			c.logger.WarnContext(ctx, "forecast fetch attempt failed, retrying",
				"attempt", attempt+1,
				"wait", wait.String(),
				"error", err.Error(),
			)
			c.sleepFn(wait)
		}
	}

	return nil, types.NewAppError(types.ErrCodeUpstreamForecast, "forecast request failed", lastErr)
}

// computeBackoff determines the wait duration before the next retry attempt.
// It respects the Retry-After header if present, otherwise uses exponential
// backoff with jitter clamped to [MinWait, MaxWait].
func (c *Client) computeBackoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
				wait := time.Duration(seconds) * time.Second
				if wait > c.retryPolicy.MaxWait {
					wait = c.retryPolicy.MaxWait
				}
				return wait
			}
		}
	}

	base := float64(c.retryPolicy.MinWait) * math.Pow(2, float64(attempt))
	maxWait := float64(c.retryPolicy.MaxWait)
	if base > maxWait {
		base = maxWait
	}

	minWait := float64(c.retryPolicy.MinWait)
	if base <= minWait {
		return c.retryPolicy.MinWait
	}
	jittered := minWait + rand.Float64()*(base-minWait)
	return time.Duration(jittered)
}

// parseHourly joins the parallel arrays by positional index. When the
// precipitation or weather-code array is shorter than the time array at a
// given index, the missing value defaults to 0.0 / 0 instead of dropping
// the bucket; the mismatch is logged since it usually indicates a truncated
// upstream response.
func (c *Client) parseHourly(h hourlySeries) ([]types.ForecastPoint, error) {
	if len(h.Precipitation) < len(h.Time) || len(h.WeatherCode) < len(h.Time) {
		c.logger.Warn("forecast response arrays have unequal lengths, defaulting missing values",
			"time_len", len(h.Time),
			"precipitation_len", len(h.Precipitation),
			"weather_code_len", len(h.WeatherCode),
		)
	}

	points := make([]types.ForecastPoint, 0, len(h.Time))
	for i, raw := range h.Time {
		t, err := time.ParseInLocation(hourlyTimeLayout, raw, c.location)
		if err != nil {
			return nil, types.NewAppError(
				types.ErrCodeMalformedForecast,
				fmt.Sprintf("unparsable hourly timestamp %q at index %d", raw, i),
				err,
			)
		}

		var precip float64
		if i < len(h.Precipitation) {
			precip = h.Precipitation[i]
		}
		var code int
		if i < len(h.WeatherCode) {
			code = h.WeatherCode[i]
		}

		points = append(points, types.ForecastPoint{
			Time:          t,
			Precipitation: precip,
			WeatherCode:   code,
		})
	}

	return points, nil
}
