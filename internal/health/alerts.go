package health

import (
	"fmt"
	"sort"
)

// Alert kinds produced by EvaluateAlerts.
const (
	AlertKPICritical       = "kpi_critical"
	AlertKPIAtRisk         = "kpi_at_risk"
	AlertThresholdCrossed  = "threshold_crossed"
	AlertThresholdRecovery = "threshold_recovered"
)

// Alert is one actionable condition derived from a computed health score.
// Evaluation is pure; delivery and persistence belong to the caller.
type Alert struct {
	Kind     string  `json:"kind"`
	KPIName  string  `json:"kpi_name,omitempty"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
	Message  string  `json:"message"`
}

// EvaluateAlerts compares the current overall score against the previous
// one and emits per-KPI alerts for critical and at-risk KPIs plus
// account-level alerts when the overall score crosses the 50 or 70
// threshold in either direction. prev may be nil for a first computation,
// in which case only per-KPI alerts are produced.
func EvaluateAlerts(prev, curr *OverallHealthScore) []Alert {
	if curr == nil {
		return nil
	}
	var alerts []Alert

	// Category map iteration is randomized; sort the names so identical
	// inputs always produce alerts in the same order.
	categories := make([]string, 0, len(curr.CategoryScores))
	for category := range curr.CategoryScores {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		cs := curr.CategoryScores[category]
		for _, k := range cs.KPIs {
			switch k.Band {
			case BandCritical:
				alerts = append(alerts, Alert{
					Kind:     AlertKPICritical,
					KPIName:  k.KPIName,
					Category: cs.Category,
					Score:    k.Score,
					Message:  fmt.Sprintf("%s is critical (value %.2f)", k.KPIName, k.Value),
				})
			case BandAtRisk:
				alerts = append(alerts, Alert{
					Kind:     AlertKPIAtRisk,
					KPIName:  k.KPIName,
					Category: cs.Category,
					Score:    k.Score,
					Message:  fmt.Sprintf("%s is at risk (value %.2f)", k.KPIName, k.Value),
				})
			}
		}
	}

	if prev == nil || prev.HealthStatus == BandUnknown || curr.HealthStatus == BandUnknown {
		return alerts
	}

	for _, threshold := range []float64{atRiskThreshold, healthyThreshold} {
		crossedDown := prev.OverallScore >= threshold && curr.OverallScore < threshold
		crossedUp := prev.OverallScore < threshold && curr.OverallScore >= threshold
		switch {
		case crossedDown:
			alerts = append(alerts, Alert{
				Kind:    AlertThresholdCrossed,
				Score:   curr.OverallScore,
				Message: fmt.Sprintf("overall score dropped below %.0f (%.1f -> %.1f)", threshold, prev.OverallScore, curr.OverallScore),
			})
		case crossedUp:
			alerts = append(alerts, Alert{
				Kind:    AlertThresholdRecovery,
				Score:   curr.OverallScore,
				Message: fmt.Sprintf("overall score recovered above %.0f (%.1f -> %.1f)", threshold, prev.OverallScore, curr.OverallScore),
			})
		}
	}
	return alerts
}
