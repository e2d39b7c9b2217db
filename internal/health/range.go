package health

import "math"

// BandRange is one numeric interval of a reference range. A nil bound is
// open-ended, so a critical band of "31 and up" is {Min: 31, Max: nil}.
type BandRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Contains reports whether v falls inside the interval. Min is inclusive
// and Max is exclusive so adjacent bands do not overlap; a fully unbounded
// band contains everything.
func (b BandRange) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v >= *b.Max {
		return false
	}
	return true
}

// distance returns how far v sits outside the interval, zero when inside.
func (b BandRange) distance(v float64) float64 {
	if b.Min != nil && v < *b.Min {
		return *b.Min - v
	}
	if b.Max != nil && v >= *b.Max {
		return v - *b.Max
	}
	return 0
}

// ReferenceRange holds the classification bands for one KPI, scoped either
// to a single customer or, when CustomerID is nil, to the shared system
// default. Bands are stored by role (critical/risk/healthy), so the
// numeric intervals already reflect the KPI's polarity: for a
// lower-is-better KPI the healthy interval holds the low numbers.
type ReferenceRange struct {
	KPIName        string     `json:"kpi_name"`
	CustomerID     *int64     `json:"customer_id,omitempty"`
	Unit           string     `json:"unit"`
	HigherIsBetter bool       `json:"higher_is_better"`
	Critical       BandRange  `json:"critical"`
	Risk           BandRange  `json:"risk"`
	Healthy        BandRange  `json:"healthy"`
	Expansion      *BandRange `json:"expansion,omitempty"`
}

// hasBands reports whether any interval bound is defined at all. A range
// row with every bound nil classifies nothing.
func (r ReferenceRange) hasBands() bool {
	for _, b := range []BandRange{r.Critical, r.Risk, r.Healthy} {
		if b.Min != nil || b.Max != nil {
			return true
		}
	}
	return r.Expansion != nil
}

// Classify maps a parsed value to its band. Values inside a defined
// interval take that interval's band. Values outside every interval clamp
// to the nearest band rather than erroring, and a range with no intervals
// at all yields BandUnknown so the scorer can fall back to a neutral
// score.
func (r ReferenceRange) Classify(v float64) Band {
	if !r.hasBands() {
		return BandUnknown
	}

	type candidate struct {
		band  Band
		rng   BandRange
		valid bool
	}
	candidates := []candidate{
		{BandCritical, r.Critical, r.Critical.Min != nil || r.Critical.Max != nil},
		{BandAtRisk, r.Risk, r.Risk.Min != nil || r.Risk.Max != nil},
		{BandHealthy, r.Healthy, r.Healthy.Min != nil || r.Healthy.Max != nil},
	}
	if r.Expansion != nil {
		candidates = append(candidates, candidate{BandExpansion, *r.Expansion, true})
	}

	// Exact membership first. Expansion is checked last so an expansion
	// interval overlapping the top of healthy still wins for high values
	// only when healthy does not claim them.
	for _, c := range candidates {
		if c.valid && c.rng.Contains(v) {
			return c.band
		}
	}

	// Out-of-range values degrade to the nearest defined band.
	best := BandUnknown
	bestDist := math.Inf(1)
	for _, c := range candidates {
		if !c.valid {
			continue
		}
		if d := c.rng.distance(v); d < bestDist {
			bestDist = d
			best = c.band
		}
	}
	return best
}
