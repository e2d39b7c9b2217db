package health

// CategoryScore is the normalized rollup of one category's scored KPIs.
// TotalUnits is the sum of impact weights the weighted scores were divided
// by; it is retained so callers can reconstruct the contribution math.
type CategoryScore struct {
	Category   string     `json:"category"`
	Score      float64    `json:"normalized_score"`
	Band       Band       `json:"health_status"`
	Weight     float64    `json:"category_weight"`
	TotalUnits float64    `json:"total_units"`
	KPIs       []KPIScore `json:"kpis,omitempty"`
}

// NormalizeCategory aggregates weighted KPI scores into a single 0-100
// category score: sum(weighted_score) / sum(impact_weight). Dividing by
// the impact-weight units keeps a ten-KPI category on the same scale as a
// two-KPI category. A category with no scoreable KPIs degrades to score 0
// with BandUnknown rather than dividing by zero.
func NormalizeCategory(category string, scores []KPIScore) CategoryScore {
	cs := CategoryScore{Category: category, Band: BandUnknown, KPIs: scores}

	var weightedSum, unitSum float64
	for _, s := range scores {
		weightedSum += s.WeightedScore
		unitSum += s.ImpactWeight
	}
	if unitSum == 0 {
		return cs
	}

	cs.Score = weightedSum / unitSum
	cs.TotalUnits = unitSum
	cs.Band = StatusForScore(cs.Score)
	return cs
}

// GroupByCategory buckets scored KPIs by their category name, preserving
// input order within each bucket.
func GroupByCategory(scores []KPIScore) map[string][]KPIScore {
	groups := make(map[string][]KPIScore)
	for _, s := range scores {
		groups[s.Category] = append(groups[s.Category], s)
	}
	return groups
}
