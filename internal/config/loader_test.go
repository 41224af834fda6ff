package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearRainEnv unsets every variable the loader reads so struct defaults
// apply. t.Setenv registers the restore; envconfig only falls back to the
// default tag when the variable is truly unset, so Unsetenv follows.
func clearRainEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RAIN_LATITUDE", "RAIN_LONGITUDE", "RAIN_LOCATION_LABEL",
		"RAIN_THRESHOLD", "RAIN_HOURS_TO_CHECK",
		"RAIN_API_BASE_URL", "RAIN_TIMEZONE", "RAIN_HTTP_TIMEOUT",
		"DISCORD_WEBHOOK_URL", "WEBHOOK_USER_AGENT", "WEBHOOK_TIMEOUT",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearRainEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 35.6895, cfg.Latitude)
	assert.Equal(t, 139.6917, cfg.Longitude)
	assert.Equal(t, "東京都新宿区付近", cfg.LocationLabel)
	assert.Equal(t, 0.5, cfg.RainThreshold)
	assert.Equal(t, 1, cfg.LookaheadHours)
	assert.Equal(t, "https://api.open-meteo.com/v1/jma", cfg.APIBaseURL)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)
	assert.False(t, cfg.Webhook.Configured(), "webhook URL defaults to unset")
}

func TestLoad_Overrides(t *testing.T) {
	clearRainEnv(t)
	t.Setenv("RAIN_LATITUDE", "51.5074")
	t.Setenv("RAIN_LONGITUDE", "-0.1278")
	t.Setenv("RAIN_THRESHOLD", "1.5")
	t.Setenv("RAIN_HOURS_TO_CHECK", "6")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/123/abc")
	t.Setenv("RAIN_LOCATION_LABEL", "London")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 51.5074, cfg.Latitude)
	assert.Equal(t, -0.1278, cfg.Longitude)
	assert.Equal(t, 1.5, cfg.RainThreshold)
	assert.Equal(t, 6, cfg.LookaheadHours)
	assert.Equal(t, "London", cfg.LocationLabel)
	assert.True(t, cfg.Webhook.Configured())
}

// Coordinates are intentionally not range-validated: out-of-range values
// pass through config and surface as an upstream API error.
func TestLoad_OutOfRangeCoordinatesAccepted(t *testing.T) {
	clearRainEnv(t)
	t.Setenv("RAIN_LATITUDE", "135.0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 135.0, cfg.Latitude)
}

func TestLoad_ParsingError(t *testing.T) {
	clearRainEnv(t)
	t.Setenv("RAIN_THRESHOLD", "not-a-number")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrParsing, cfgErr.Type)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative threshold", key: "RAIN_THRESHOLD", value: "-1"},
		{name: "zero lookahead hours", key: "RAIN_HOURS_TO_CHECK", value: "0"},
		{name: "invalid webhook URL", key: "DISCORD_WEBHOOK_URL", value: "not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRainEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, ErrValidation, cfgErr.Type)
		})
	}
}
