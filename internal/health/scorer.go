package health

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRangeNotFound is returned by a RangeSource when neither a customer
// override nor a system default exists for a KPI. The scorer treats it as
// "unscoreable KPI" and excludes the record instead of failing the batch.
var ErrRangeNotFound = errors.New("reference range not found")

// RangeSource resolves the applicable reference range for a KPI within a
// customer's scope. The storage layer implements it with the
// customer-override-then-system-default lookup.
type RangeSource interface {
	ResolveRange(customerID int64, kpiName string) (ReferenceRange, error)
}

// KPIRecord is one measured KPI for an account in a reporting period, as
// handed to the scorer after boundary normalization. RawValue keeps the
// original upload text; parsing happens during scoring.
type KPIRecord struct {
	KPIName     string `json:"kpi_name"`
	Category    string `json:"category"`
	ImpactLevel string `json:"impact_level"`
	RawValue    string `json:"value"`
}

// KPIScore is the scored form of one record. ImpactWeight is returned
// alongside WeightedScore because it is the normalization unit the
// category rollup divides by.
type KPIScore struct {
	KPIName       string  `json:"kpi_name"`
	Category      string  `json:"category"`
	Value         float64 `json:"value"`
	Score         float64 `json:"score"`
	Band          Band    `json:"status"`
	ImpactLevel   string  `json:"impact_level"`
	ImpactWeight  float64 `json:"impact_weight"`
	WeightedScore float64 `json:"weighted_score"`
}

// Exclusion records one KPI left out of scoring and why. Exclusions feed
// the data-quality report; they are never fatal.
type Exclusion struct {
	KPIName string `json:"kpi_name"`
	Reason  string `json:"reason"`
}

// BandScores holds the numeric score assigned to each band. Default is
// used when a KPI has no reference bands at all.
type BandScores struct {
	Critical  float64
	AtRisk    float64
	Healthy   float64
	Expansion float64
	Default   float64
}

// DefaultBandScores returns the standard band midpoints.
func DefaultBandScores() BandScores {
	return BandScores{Critical: 30, AtRisk: 60, Healthy: 85, Expansion: 95, Default: 50}
}

// ImpactWeight maps an impact level to its multiplier: High=3, Medium=2,
// Low=1. Unrecognised levels weigh 1 so a malformed row cannot dominate a
// category.
func ImpactWeight(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

// Scorer turns parsed KPI values into weighted health scores. It is
// stateless apart from its band score calibration and safe for concurrent
// use.
type Scorer struct {
	Bands BandScores
}

// NewScorer returns a scorer with the default band calibration.
func NewScorer() *Scorer {
	return &Scorer{Bands: DefaultBandScores()}
}

func (s *Scorer) bandScore(b Band) float64 {
	switch b {
	case BandCritical:
		return s.Bands.Critical
	case BandAtRisk:
		return s.Bands.AtRisk
	case BandHealthy:
		return s.Bands.Healthy
	case BandExpansion:
		return s.Bands.Expansion
	default:
		return s.Bands.Default
	}
}

// ScoreKPI classifies one parsed value against its reference range and
// applies the impact multiplier.
func (s *Scorer) ScoreKPI(value float64, rr ReferenceRange, impactLevel string) KPIScore {
	band := rr.Classify(value)
	score := s.bandScore(band)
	weight := ImpactWeight(impactLevel)
	return KPIScore{
		KPIName:       rr.KPIName,
		Value:         value,
		Score:         score,
		Band:          band,
		ImpactLevel:   impactLevel,
		ImpactWeight:  weight,
		WeightedScore: score * weight,
	}
}

// ScoreRecords scores a batch of KPI records for one customer. Records
// whose value cannot be parsed, or whose KPI has no resolvable reference
// range, are excluded with a reason; any other resolver failure aborts the
// batch since it signals a storage problem rather than bad data.
func (s *Scorer) ScoreRecords(customerID int64, records []KPIRecord, ranges RangeSource) ([]KPIScore, []Exclusion, error) {
	scores := make([]KPIScore, 0, len(records))
	var excluded []Exclusion

	for _, rec := range records {
		value, ok := ParseValue(rec.RawValue)
		if !ok {
			excluded = append(excluded, Exclusion{KPIName: rec.KPIName, Reason: fmt.Sprintf("unparseable value %q", rec.RawValue)})
			continue
		}

		rr, err := ranges.ResolveRange(customerID, rec.KPIName)
		if errors.Is(err, ErrRangeNotFound) {
			excluded = append(excluded, Exclusion{KPIName: rec.KPIName, Reason: "no reference range"})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("resolve range for %q: %w", rec.KPIName, err)
		}

		score := s.ScoreKPI(value, rr, rec.ImpactLevel)
		score.Category = rec.Category
		scores = append(scores, score)
	}
	return scores, excluded, nil
}
