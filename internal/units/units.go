// Package units provides shared constants and validation for KPI measurement units
package units

import "strings"

// Unit constants
const (
	Percent  = "percent"
	Hours    = "hours"
	Minutes  = "minutes"
	Days     = "days"
	Currency = "currency"
	Count    = "count"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Percent, Hours, Minutes, Days, Currency, Count}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "percent, hours, minutes, days, currency, count"
}

// Canonical maps common unit spellings and symbols to a canonical unit value.
// Returns the empty string when the word is not a recognised unit.
func Canonical(word string) string {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(word), ".")) {
	case "%", "percent", "pct":
		return Percent
	case "hour", "hours", "hr", "hrs", "h":
		return Hours
	case "minute", "minutes", "min", "mins":
		return Minutes
	case "day", "days":
		return Days
	case "$", "usd", "dollars", "currency":
		return Currency
	case "count", "units", "tickets", "users", "seats":
		return Count
	default:
		return ""
	}
}

// ConvertDuration normalises a time-based KPI value for range comparison.
// Minute readings are stored against hour-denominated ranges, so minutes
// convert to hours. Hour and day readings compare against ranges in their
// own unit and pass through unchanged.
func ConvertDuration(value float64, unit string) float64 {
	switch unit {
	case Minutes:
		return value / 60
	default:
		return value
	}
}
