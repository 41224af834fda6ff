package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setRunEnv points the binary at a stub forecast API and clears the webhook.
func setRunEnv(t *testing.T, forecastURL, webhookURL string) {
	t.Helper()
	for key, value := range map[string]string{
		"RAIN_API_BASE_URL":   forecastURL,
		"DISCORD_WEBHOOK_URL": webhookURL,
		"RAIN_HTTP_TIMEOUT":   "2s",
		"WEBHOOK_TIMEOUT":     "2s",
	} {
		t.Setenv(key, value)
		if value == "" {
			os.Unsetenv(key)
		}
	}
}

func TestRun_NoRain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"hourly":{"time":["2024-01-01T10:00"],"precipitation":[0.0],"weather_code":[1]}}`)
	}))
	defer srv.Close()

	setRunEnv(t, srv.URL, "")

	assert.Equal(t, exitOK, run())
}

func TestRun_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	setRunEnv(t, srv.URL, "")

	assert.Equal(t, exitCheckFailed, run())
}

func TestRun_RainDetectedWebhookUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"hourly":{"time":["2024-01-01T10:00"],"precipitation":[0.6],"weather_code":[61]}}`)
	}))
	defer srv.Close()

	setRunEnv(t, srv.URL, "")

	// Rain detected with delivery skipped is still a completed check.
	assert.Equal(t, exitOK, run())
}

func TestRun_RainDetectedDeliveryFails(t *testing.T) {
	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"hourly":{"time":["2024-01-01T10:00"],"precipitation":[0.6],"weather_code":[61]}}`)
	}))
	defer forecastSrv.Close()

	webhookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer webhookSrv.Close()

	setRunEnv(t, forecastSrv.URL, webhookSrv.URL)

	assert.Equal(t, exitDeliveryError, run())
}

func TestRun_RainDetectedAndDelivered(t *testing.T) {
	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"hourly":{"time":["2024-01-01T10:00"],"precipitation":[0.6],"weather_code":[61]}}`)
	}))
	defer forecastSrv.Close()

	var delivered int
	webhookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhookSrv.Close()

	setRunEnv(t, forecastSrv.URL, webhookSrv.URL)

	assert.Equal(t, exitOK, run())
	assert.Equal(t, 1, delivered)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("unrecognized"))
}
