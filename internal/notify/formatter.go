package notify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rainwatch/internal/forecast"
	"rainwatch/internal/types"
)

// Embed presentation constants. The color is Discord blurple.
const (
	embedTitle       = "🌧️ 雨が降りそうです"
	embedDescription = "まもなく雨が予想されます。"
	embedColor       = 0x5865F2
	embedFooterText  = "Powered by Open-Meteo JMA API"

	// noDataPlaceholder is the fixed fallback body for a zero-match alert.
	noDataPlaceholder = "データなし"
)

// DiscordFormatter renders a RainAlert as Discord webhook JSON with a single
// embed. The embed timestamp is the wall-clock time at formatting, not the
// forecast time, so the clock is injected for testability.
type DiscordFormatter struct {
	clock types.Clock
}

// NewDiscordFormatter creates a DiscordFormatter using the real clock.
func NewDiscordFormatter() *DiscordFormatter {
	return &DiscordFormatter{clock: types.RealClock{}}
}

// NewDiscordFormatterWithClock creates a DiscordFormatter with an injected
// clock. This constructor exists for testing.
func NewDiscordFormatterWithClock(clock types.Clock) *DiscordFormatter {
	return &DiscordFormatter{clock: clock}
}

// Format transforms a RainAlert into the Discord webhook payload.
func (f *DiscordFormatter) Format(alert *types.RainAlert) ([]byte, error) {
	if alert == nil {
		return nil, fmt.Errorf("discord formatter: alert is nil")
	}

	embed := DiscordEmbed{
		Title:       embedTitle,
		Description: embedDescription,
		Color:       embedColor,
		Fields: []DiscordField{
			{
				Name:   "予報",
				Value:  forecastLines(alert.Points),
				Inline: false,
			},
			{
				Name:   "場所",
				Value:  locationValue(alert),
				Inline: false,
			},
		},
		Footer: &DiscordFooter{
			Text: embedFooterText,
		},
		Timestamp: f.clock.Now().Format(time.RFC3339),
	}

	return json.Marshal(DiscordPayload{Embeds: []DiscordEmbed{embed}})
}

// forecastLines renders one line per forecast point: local time, translated
// weather label, and precipitation amount. An empty slice yields the fixed
// placeholder rather than an empty field value.
func forecastLines(points []types.ForecastPoint) string {
	if len(points) == 0 {
		return noDataPlaceholder
	}

	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "`%s` - %s (降水量: %smm)\n",
			p.Time.Format("15:04"),
			forecast.DescribeWeatherCode(p.WeatherCode),
			formatAmount(p.Precipitation),
		)
	}
	return b.String()
}

// locationValue renders the configured coordinates plus the display label.
// The label comes from configuration so it cannot drift out of sync with
// the numeric coordinates baked into a literal.
func locationValue(alert *types.RainAlert) string {
	return fmt.Sprintf("緯度: %s, 経度: %s\n(%s)",
		formatAmount(alert.Latitude),
		formatAmount(alert.Longitude),
		alert.LocationLabel,
	)
}

// formatAmount renders a float with the minimum number of digits (0.6, not
// 0.600000).
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
