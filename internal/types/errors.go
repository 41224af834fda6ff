package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. All packages use these constants instead of
// hardcoded strings so tests can assert on failure causes.
const (
	// ErrCodeUpstreamForecast covers transport failures against the forecast
	// API: DNS, connection errors, timeouts, and non-2xx responses.
	ErrCodeUpstreamForecast ErrorCode = "upstream_forecast_unavailable"

	// ErrCodeMalformedForecast indicates the forecast API responded 2xx but
	// the body could not be decoded into the expected hourly series.
	ErrCodeMalformedForecast ErrorCode = "malformed_forecast_response"

	// ErrCodeWebhookNotConfigured indicates a delivery was requested while no
	// webhook endpoint is configured. This is a skip condition, not a
	// transport failure.
	ErrCodeWebhookNotConfigured ErrorCode = "webhook_not_configured"

	// ErrCodeWebhookDelivery covers webhook POST failures: network errors,
	// timeouts, and non-2xx responses.
	ErrCodeWebhookDelivery ErrorCode = "webhook_delivery_failed"
)

// AppError is the standard application error type. Domain errors are
// expressed as AppError to enable consistent logging and error chain
// support.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCodeOf extracts the ErrorCode from an error chain. It returns the
// empty code when err is nil or carries no AppError.
func ErrorCodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
