package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainwatch/internal/types"
)

func pointAt(hour int, precip float64) types.ForecastPoint {
	return types.ForecastPoint{
		Time:          time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC),
		Precipitation: precip,
		WeatherCode:   61,
	}
}

func TestAboveThreshold_ExactSubsequence(t *testing.T) {
	points := []types.ForecastPoint{
		pointAt(10, 0.0),
		pointAt(11, 0.6),
		pointAt(12, 0.3),
		pointAt(13, 1.2),
	}

	matches := AboveThreshold(points, 0.5)

	require.Len(t, matches, 2)
	assert.Equal(t, points[1], matches[0])
	assert.Equal(t, points[3], matches[1])
}

func TestAboveThreshold_OrderPreserved(t *testing.T) {
	points := []types.ForecastPoint{
		pointAt(10, 3.0),
		pointAt(11, 1.0),
		pointAt(12, 2.0),
	}

	matches := AboveThreshold(points, 0.5)

	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.True(t, matches[i-1].Time.Before(matches[i].Time))
	}
}

func TestAboveThreshold_BoundaryIsInclusive(t *testing.T) {
	points := []types.ForecastPoint{pointAt(10, 0.5)}

	matches := AboveThreshold(points, 0.5)

	require.Len(t, matches, 1, "equality to the threshold counts as a match")
}

func TestAboveThreshold_Idempotent(t *testing.T) {
	points := []types.ForecastPoint{
		pointAt(10, 0.1),
		pointAt(11, 0.7),
		pointAt(12, 0.9),
	}

	once := AboveThreshold(points, 0.5)
	twice := AboveThreshold(once, 0.5)

	assert.Equal(t, once, twice)
}

func TestAboveThreshold_NoMatches(t *testing.T) {
	points := []types.ForecastPoint{pointAt(10, 0.3)}

	assert.Empty(t, AboveThreshold(points, 0.5))
}

func TestAboveThreshold_NilInput(t *testing.T) {
	assert.Empty(t, AboveThreshold(nil, 0.5))
}
