package health

import (
	"errors"
	"fmt"
	"testing"
)

// stubRanges implements RangeSource over a fixed map.
type stubRanges struct {
	ranges map[string]ReferenceRange
	err    error
}

func (s *stubRanges) ResolveRange(customerID int64, kpiName string) (ReferenceRange, error) {
	if s.err != nil {
		return ReferenceRange{}, s.err
	}
	rr, ok := s.ranges[kpiName]
	if !ok {
		return ReferenceRange{}, ErrRangeNotFound
	}
	return rr, nil
}

func TestImpactWeight(t *testing.T) {
	tests := []struct {
		level    string
		expected float64
	}{
		{"High", 3},
		{"high", 3},
		{"HIGH", 3},
		{"Medium", 2},
		{"Low", 1},
		{"", 1},
		{"unknown", 1},
		{" High ", 3},
	}
	for _, tt := range tests {
		if got := ImpactWeight(tt.level); got != tt.expected {
			t.Errorf("ImpactWeight(%q) = %f, want %f", tt.level, got, tt.expected)
		}
	}
}

func TestScoreKPIBandMidpoints(t *testing.T) {
	s := NewScorer()
	rr := activationRange()
	rr.Healthy = BandRange{Min: f64(70), Max: f64(95)}
	rr.Expansion = &BandRange{Min: f64(95)}

	tests := []struct {
		name     string
		value    float64
		expected float64
		band     Band
	}{
		{"critical scores 30", 20, 30, BandCritical},
		{"at risk scores 60", 55, 60, BandAtRisk},
		{"healthy scores 85", 80, 85, BandHealthy},
		{"expansion scores 95", 98, 95, BandExpansion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScoreKPI(tt.value, rr, "Low")
			if got.Score != tt.expected || got.Band != tt.band {
				t.Errorf("ScoreKPI(%f) = score %f band %v, want %f %v", tt.value, got.Score, got.Band, tt.expected, tt.band)
			}
		})
	}
}

func TestScoreKPINoBandsScoresDefault(t *testing.T) {
	s := NewScorer()
	got := s.ScoreKPI(42, ReferenceRange{KPIName: "Unbanded"}, "High")
	if got.Score != 50 || got.Band != BandUnknown {
		t.Errorf("unbanded KPI = score %f band %v, want 50 unknown", got.Score, got.Band)
	}
	if got.WeightedScore != 150 {
		t.Errorf("weighted score = %f, want 150", got.WeightedScore)
	}
}

func TestScoreKPIWeighting(t *testing.T) {
	s := NewScorer()
	rr := activationRange()

	high := s.ScoreKPI(80, rr, "High")
	if high.ImpactWeight != 3 || high.WeightedScore != 255 {
		t.Errorf("high impact = weight %f weighted %f, want 3 and 255", high.ImpactWeight, high.WeightedScore)
	}
	med := s.ScoreKPI(80, rr, "Medium")
	if med.ImpactWeight != 2 || med.WeightedScore != 170 {
		t.Errorf("medium impact = weight %f weighted %f, want 2 and 170", med.ImpactWeight, med.WeightedScore)
	}
}

func TestScoreRecordsExclusions(t *testing.T) {
	s := NewScorer()
	ranges := &stubRanges{ranges: map[string]ReferenceRange{
		"Activation Rate": activationRange(),
	}}

	records := []KPIRecord{
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "High", RawValue: "75%"},
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "Low", RawValue: "not measured"},
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "Low", RawValue: "NaN"},
		{KPIName: "Mystery Metric", Category: "Product Usage", ImpactLevel: "High", RawValue: "12"},
	}

	scores, excluded, err := s.ScoreRecords(1, records, ranges)
	if err != nil {
		t.Fatalf("ScoreRecords: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("scored %d records, want 1", len(scores))
	}
	if scores[0].Band != BandHealthy || scores[0].Category != "Product Usage" {
		t.Errorf("score = %+v, want healthy Product Usage", scores[0])
	}
	if len(excluded) != 3 {
		t.Fatalf("excluded %d records, want 3: %+v", len(excluded), excluded)
	}
	if excluded[0].KPIName != "Activation Rate" || excluded[2].Reason != "no reference range" {
		t.Errorf("exclusions = %+v", excluded)
	}
	if excluded[1].Reason != `unparseable value "NaN"` {
		t.Errorf("exclusions = %+v", excluded)
	}
}

func TestScoreRecordsPropagatesStorageErrors(t *testing.T) {
	s := NewScorer()
	dbErr := fmt.Errorf("disk on fire")
	ranges := &stubRanges{err: dbErr}

	_, _, err := s.ScoreRecords(1, []KPIRecord{{KPIName: "Activation Rate", RawValue: "75%"}}, ranges)
	if err == nil || !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
