// Package health implements the KPI health score normalization engine.
// It provides types and pure functions for parsing raw KPI values,
// classifying them against reference ranges, weighting them by impact
// level, and rolling them up into category and overall health scores.
package health

import (
	"encoding/json"
	"fmt"
)

// Band is the closed set of health classifications a KPI, category, or
// account can carry.
type Band int

const (
	// BandUnknown marks scores computed from no data, or values for KPIs
	// with no defined reference bands.
	BandUnknown Band = iota
	BandCritical
	BandAtRisk
	BandHealthy
	// BandExpansion sits above healthy for KPIs whose catalog entry
	// defines a fourth tier (e.g. usage past the contracted level).
	BandExpansion
)

// Fixed rollup thresholds, shared by the category normalizer and the
// overall aggregator.
const (
	healthyThreshold = 70.0
	atRiskThreshold  = 50.0
)

func (b Band) String() string {
	switch b {
	case BandCritical:
		return "critical"
	case BandAtRisk:
		return "at_risk"
	case BandHealthy:
		return "healthy"
	case BandExpansion:
		return "expansion"
	default:
		return "unknown"
	}
}

// ParseBand converts a wire string into a Band. Unrecognised values are an
// error rather than silently mapping to unknown, so typos in stored rows
// surface at decode time.
func ParseBand(s string) (Band, error) {
	switch s {
	case "critical":
		return BandCritical, nil
	case "at_risk":
		return BandAtRisk, nil
	case "healthy":
		return BandHealthy, nil
	case "expansion":
		return BandExpansion, nil
	case "unknown":
		return BandUnknown, nil
	default:
		return BandUnknown, fmt.Errorf("unrecognised health band %q", s)
	}
}

// MarshalJSON encodes the band as its string form.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes the string form of a band.
func (b *Band) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// StatusForScore maps a 0-100 normalized score to its rollup band:
// >=70 healthy, >=50 at_risk, below that critical.
func StatusForScore(score float64) Band {
	switch {
	case score >= healthyThreshold:
		return BandHealthy
	case score >= atRiskThreshold:
		return BandAtRisk
	default:
		return BandCritical
	}
}
