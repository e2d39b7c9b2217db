package health

import "testing"

func overallWithKPIs(score float64, kpis ...KPIScore) *OverallHealthScore {
	cs := NormalizeCategory("Support", kpis)
	return &OverallHealthScore{
		OverallScore:   score,
		HealthStatus:   StatusForScore(score),
		CategoryScores: map[string]CategoryScore{"Support": cs},
		KPICount:       len(kpis),
	}
}

func countKind(alerts []Alert, kind string) int {
	n := 0
	for _, a := range alerts {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

func TestEvaluateAlertsPerKPI(t *testing.T) {
	curr := overallWithKPIs(55,
		KPIScore{KPIName: "Resolution Time", Band: BandCritical, Score: 30, ImpactWeight: 3, WeightedScore: 90},
		KPIScore{KPIName: "CSAT", Band: BandAtRisk, Score: 60, ImpactWeight: 2, WeightedScore: 120},
		KPIScore{KPIName: "First Response", Band: BandHealthy, Score: 85, ImpactWeight: 1, WeightedScore: 85},
	)

	alerts := EvaluateAlerts(nil, curr)
	if countKind(alerts, AlertKPICritical) != 1 {
		t.Errorf("critical alerts = %d, want 1", countKind(alerts, AlertKPICritical))
	}
	if countKind(alerts, AlertKPIAtRisk) != 1 {
		t.Errorf("at-risk alerts = %d, want 1", countKind(alerts, AlertKPIAtRisk))
	}
	// No previous score: no threshold alerts.
	if countKind(alerts, AlertThresholdCrossed) != 0 {
		t.Errorf("threshold alerts without prev = %d, want 0", countKind(alerts, AlertThresholdCrossed))
	}
}

func TestEvaluateAlertsThresholdCrossing(t *testing.T) {
	tests := []struct {
		name       string
		prev, curr float64
		crossed    int
		recovered  int
	}{
		{"drop below 70", 75, 65, 1, 0},
		{"drop below 50", 55, 45, 1, 0},
		{"drop through both", 75, 45, 2, 0},
		{"recover above 50", 45, 55, 0, 1},
		{"recover through both", 45, 75, 0, 2},
		{"no crossing", 72, 71, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := EvaluateAlerts(overallWithKPIs(tt.prev), overallWithKPIs(tt.curr))
			if got := countKind(alerts, AlertThresholdCrossed); got != tt.crossed {
				t.Errorf("crossed = %d, want %d", got, tt.crossed)
			}
			if got := countKind(alerts, AlertThresholdRecovery); got != tt.recovered {
				t.Errorf("recovered = %d, want %d", got, tt.recovered)
			}
		})
	}
}

func TestEvaluateAlertsUnknownPrevSuppressesThresholds(t *testing.T) {
	prev := &OverallHealthScore{HealthStatus: BandUnknown}
	curr := overallWithKPIs(45)
	if n := countKind(EvaluateAlerts(prev, curr), AlertThresholdCrossed); n != 0 {
		t.Errorf("threshold alerts with unknown prev = %d, want 0", n)
	}
}

func TestEvaluateAlertsDeterministicOrder(t *testing.T) {
	curr := &OverallHealthScore{
		OverallScore: 40,
		HealthStatus: BandCritical,
		CategoryScores: map[string]CategoryScore{
			"Support": NormalizeCategory("Support",
				[]KPIScore{{KPIName: "Resolution Time", Band: BandCritical, Score: 30, ImpactWeight: 3, WeightedScore: 90}}),
			"Product Usage": NormalizeCategory("Product Usage",
				[]KPIScore{{KPIName: "Activation Rate", Band: BandCritical, Score: 30, ImpactWeight: 3, WeightedScore: 90}}),
			"Business Outcomes": NormalizeCategory("Business Outcomes",
				[]KPIScore{{KPIName: "ARR Growth", Band: BandAtRisk, Score: 60, ImpactWeight: 2, WeightedScore: 120}}),
		},
		KPICount: 3,
	}

	first := EvaluateAlerts(nil, curr)
	for i := 0; i < 20; i++ {
		again := EvaluateAlerts(nil, curr)
		if len(again) != len(first) {
			t.Fatalf("run %d produced %d alerts, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d alert %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}

	// Alerts follow category name order.
	wantKPIs := []string{"ARR Growth", "Activation Rate", "Resolution Time"}
	if len(first) != len(wantKPIs) {
		t.Fatalf("got %d alerts, want %d", len(first), len(wantKPIs))
	}
	for i, want := range wantKPIs {
		if first[i].KPIName != want {
			t.Errorf("alert %d = %q, want %q", i, first[i].KPIName, want)
		}
	}
}

func TestEvaluateAlertsNilCurrent(t *testing.T) {
	if alerts := EvaluateAlerts(overallWithKPIs(80), nil); alerts != nil {
		t.Errorf("alerts for nil current = %v, want nil", alerts)
	}
}
