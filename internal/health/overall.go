package health

// WeightProfile assigns a relative weight to each category when rolling
// categories into the overall score. Profiles are vertical-specific
// configuration supplied by the catalog, never hardcoded here. Categories
// absent from the profile weigh 1.
type WeightProfile map[string]float64

func (p WeightProfile) weightFor(category string) float64 {
	if w, ok := p[category]; ok {
		return w
	}
	return 1
}

// OverallHealthScore is the final rollup for one account and reporting
// period. It is purely computed; persistence of snapshots is the trend
// store's concern.
type OverallHealthScore struct {
	OverallScore   float64                  `json:"overall_score"`
	HealthStatus   Band                     `json:"health_status"`
	CategoryScores map[string]CategoryScore `json:"category_scores"`
	KPICount       int                      `json:"kpi_count"`
}

// Aggregate rolls scored KPIs up through categories into one overall
// health score using the given weight profile:
//
//	overall = Σ(category_score × category_weight) / Σ(category_weight)
//
// With no scoreable KPIs at all the result is score 0, status unknown, and
// an empty category map. The function is pure: identical inputs always
// produce identical output.
func (s *Scorer) Aggregate(scores []KPIScore, weights WeightProfile) OverallHealthScore {
	out := OverallHealthScore{
		HealthStatus:   BandUnknown,
		CategoryScores: make(map[string]CategoryScore),
		KPICount:       len(scores),
	}

	var weightedSum, weightSum float64
	for category, group := range GroupByCategory(scores) {
		cs := NormalizeCategory(category, group)
		cs.Weight = weights.weightFor(category)
		out.CategoryScores[category] = cs

		weightedSum += cs.Score * cs.Weight
		weightSum += cs.Weight
	}
	if weightSum == 0 {
		return out
	}

	out.OverallScore = weightedSum / weightSum
	out.HealthStatus = StatusForScore(out.OverallScore)
	return out
}
