package health

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{"plain integer", "42", 42, true},
		{"plain float", "3.5", 3.5, true},
		{"percent sign", "75%", 75, true},
		{"currency symbol", "$1250", 1250, true},
		{"thousands separator", "1,250", 1250, true},
		{"currency with separator", "$12,500", 12500, true},
		{"K suffix", "300K", 300000, true},
		{"lowercase k suffix", "300k", 300000, true},
		{"M suffix", "1.2M", 1200000, true},
		{"currency with M suffix", "$1.2M", 1200000, true},
		{"hours word", "21 hours", 21, true},
		{"hours word capitalised", "21 Hours", 21, true},
		{"hours fractional", "3.5 hours", 3.5, true},
		{"minutes convert to hours", "45 minutes", 0.75, true},
		{"minutes abbreviation", "90 min", 1.5, true},
		{"days keep magnitude", "7 days", 7, true},
		{"trailing space", "21 hours ", 21, true},
		{"first numeric token wins", "approx 18 hours", 18, true},
		{"negative value", "-5", -5, true},
		{"empty string", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"no numeric token", "not measured", 0, false},
		{"lone symbol", "$", 0, false},
		{"pandas missing cell", "NaN", 0, false},
		{"lowercase nan", "nan", 0, false},
		{"positive infinity", "Inf", 0, false},
		{"negative infinity", "-inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseValue(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseValue(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ParseValue(%q) = %f, want %f", tt.raw, got, tt.expected)
			}
		})
	}
}

// A value with an embedded unit and trailing space must not be
// mis-tokenized: "21 hours" is 21 hours, not 2160 or a parse failure.
func TestParseValueHoursNotMisTokenized(t *testing.T) {
	for _, raw := range []string{"21 hours", "21 hours ", "21 Hours", "21 HOURS"} {
		got, ok := ParseValue(raw)
		if !ok || got != 21.0 {
			t.Errorf("ParseValue(%q) = %f, %v; want 21.0, true", raw, got, ok)
		}
	}
}
