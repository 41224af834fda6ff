package forecast

import "rainwatch/internal/types"

// AboveThreshold returns the points whose precipitation amount meets or
// exceeds the threshold, preserving order. Equality counts as a match. The
// function is pure and idempotent: filtering an already-filtered slice with
// the same threshold returns an equal slice.
func AboveThreshold(points []types.ForecastPoint, threshold float64) []types.ForecastPoint {
	var matches []types.ForecastPoint
	for _, p := range points {
		if p.Precipitation >= threshold {
			matches = append(matches, p)
		}
	}
	return matches
}
