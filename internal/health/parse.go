package health

import (
	"math"
	"strconv"
	"strings"

	"github.com/pulsekpi/pulse/internal/units"
)

// ParseValue converts a raw textual KPI value into a single numeric value.
// Upload sources are permissive about formatting, so this accepts currency
// symbols, percent signs, thousands separators, K/M magnitude suffixes, and
// trailing unit words ("21 hours", "45 minutes"). Minute readings convert
// to hours; other units keep their magnitude.
//
// The second return is false when no numeric token can be extracted. That
// is not an error condition: callers exclude the KPI from scoring instead
// of failing the batch.
func ParseValue(raw string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	for i, field := range fields {
		v, ok := parseNumericToken(field)
		if !ok {
			continue
		}
		// A unit word immediately after the numeric token may rescale it.
		if i+1 < len(fields) {
			if unit := units.Canonical(fields[i+1]); unit != "" {
				v = units.ConvertDuration(v, unit)
			}
		}
		return v, true
	}
	return 0, false
}

// parseNumericToken extracts a float from one whitespace-delimited token,
// tolerating "$1,250", "75%", "1.2M", "300K", and attached unit suffixes
// like "21h".
func parseNumericToken(tok string) (float64, bool) {
	t := strings.TrimSpace(tok)
	t = strings.TrimPrefix(t, "$")
	t = strings.ReplaceAll(t, ",", "")
	t = strings.TrimSuffix(t, "%")
	if t == "" {
		return 0, false
	}

	mult := 1.0
	switch lower := strings.ToLower(t); {
	case strings.HasSuffix(lower, "k"):
		mult = 1e3
		t = t[:len(t)-1]
	case strings.HasSuffix(lower, "m"):
		mult = 1e6
		t = t[:len(t)-1]
	case strings.HasSuffix(lower, "h"):
		// hour suffix carries no rescaling; ranges are hour-denominated
		t = t[:len(t)-1]
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts "NaN" and "Inf", which spreadsheet exports emit
	// for missing cells. Non-finite values cannot be classified or
	// serialized, so the record is excluded like any other unparseable one.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * mult, true
}
