package health

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func saasProfile() WeightProfile {
	return WeightProfile{
		"Product Usage":         20,
		"Support":               20,
		"Customer Sentiment":    20,
		"Business Outcomes":     25,
		"Relationship Strength": 15,
	}
}

func TestAggregateWeightedRollup(t *testing.T) {
	s := NewScorer()
	scores := []KPIScore{
		{KPIName: "a", Category: "Product Usage", Score: 85, ImpactWeight: 3, WeightedScore: 255},
		{KPIName: "b", Category: "Support", Score: 60, ImpactWeight: 2, WeightedScore: 120},
	}
	weights := WeightProfile{"Product Usage": 20, "Support": 20}

	out := s.Aggregate(scores, weights)
	// Both categories normalize to their single KPI's score; equal weights
	// mean the overall is the plain average.
	want := (85.0 + 60.0) / 2
	if math.Abs(out.OverallScore-want) > 1e-9 {
		t.Errorf("overall = %f, want %f", out.OverallScore, want)
	}
	if out.HealthStatus != BandHealthy {
		t.Errorf("status = %v, want BandHealthy", out.HealthStatus)
	}
	if out.KPICount != 2 {
		t.Errorf("kpi count = %d, want 2", out.KPICount)
	}
	if out.CategoryScores["Product Usage"].Weight != 20 {
		t.Errorf("category weight = %f, want 20", out.CategoryScores["Product Usage"].Weight)
	}
}

func TestAggregateUnequalWeights(t *testing.T) {
	s := NewScorer()
	scores := []KPIScore{
		{Category: "Business Outcomes", Score: 40, ImpactWeight: 1, WeightedScore: 40},
		{Category: "Relationship Strength", Score: 90, ImpactWeight: 1, WeightedScore: 90},
	}

	out := s.Aggregate(scores, saasProfile())
	want := (40*25.0 + 90*15.0) / (25.0 + 15.0)
	if math.Abs(out.OverallScore-want) > 1e-9 {
		t.Errorf("overall = %f, want %f", out.OverallScore, want)
	}
	if out.HealthStatus != BandAtRisk {
		t.Errorf("status = %v, want BandAtRisk", out.HealthStatus)
	}
}

func TestAggregateMissingCategoryWeighsOne(t *testing.T) {
	s := NewScorer()
	scores := []KPIScore{
		{Category: "Unlisted", Score: 80, ImpactWeight: 1, WeightedScore: 80},
	}
	out := s.Aggregate(scores, WeightProfile{})
	if out.OverallScore != 80 {
		t.Errorf("overall = %f, want 80", out.OverallScore)
	}
	if out.CategoryScores["Unlisted"].Weight != 1 {
		t.Errorf("default weight = %f, want 1", out.CategoryScores["Unlisted"].Weight)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := NewScorer()
	out := s.Aggregate(nil, saasProfile())
	if out.OverallScore != 0 {
		t.Errorf("overall = %f, want 0", out.OverallScore)
	}
	if out.HealthStatus != BandUnknown {
		t.Errorf("status = %v, want BandUnknown", out.HealthStatus)
	}
	if len(out.CategoryScores) != 0 {
		t.Errorf("category scores = %v, want empty", out.CategoryScores)
	}
}

// Idempotence: the aggregator is a pure function, so repeated calls with
// the same inputs produce identical results.
func TestAggregateIdempotent(t *testing.T) {
	s := NewScorer()
	scores := []KPIScore{
		{KPIName: "a", Category: "Product Usage", Score: 85, ImpactWeight: 3, WeightedScore: 255},
		{KPIName: "b", Category: "Support", Score: 30, ImpactWeight: 2, WeightedScore: 60},
		{KPIName: "c", Category: "Support", Score: 60, ImpactWeight: 1, WeightedScore: 60},
	}
	first := s.Aggregate(scores, saasProfile())
	second := s.Aggregate(scores, saasProfile())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("aggregate not idempotent (-first +second):\n%s", diff)
	}
}
