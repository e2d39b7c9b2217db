// Package trend summarizes health score history with basic statistics
// so API clients can show direction without recomputing it.
package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Direction labels for a trend summary.
const (
	DirectionImproving = "improving"
	DirectionDeclining = "declining"
	DirectionStable    = "stable"
)

// Slopes this close to flat are reported as stable. Scores run 0-100, so
// half a point per period is noise.
const stableSlopeEpsilon = 0.5

// Summary describes an account's score history.
type Summary struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Slope     float64 `json:"slope"`
	Direction string  `json:"direction"`
}

// Summarize computes descriptive statistics over scores in chronological
// order. Slope is the least-squares change in score per period.
func Summarize(scores []float64) Summary {
	s := Summary{Count: len(scores), Direction: DirectionStable}
	if len(scores) == 0 {
		return s
	}

	s.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)

		xs := make([]float64, len(scores))
		for i := range xs {
			xs[i] = float64(i)
		}
		_, slope := stat.LinearRegression(xs, scores, nil, false)
		s.Slope = slope
	}

	switch {
	case s.Slope > stableSlopeEpsilon:
		s.Direction = DirectionImproving
	case s.Slope < -stableSlopeEpsilon:
		s.Direction = DirectionDeclining
	}
	if math.IsNaN(s.Slope) {
		s.Slope = 0
		s.Direction = DirectionStable
	}
	return s
}
