// Package catalog loads the KPI definition catalog: per-KPI reference
// bands and polarity, plus the named category weight profiles used by the
// overall aggregator. The catalog is loaded once at startup and treated as
// immutable; every consumer receives it by reference.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pulsekpi/pulse/internal/health"
	"github.com/pulsekpi/pulse/internal/units"
)

// DefaultCatalogPath is the canonical catalog shipped with the repo. It is
// the single source of truth for system-default reference ranges.
const DefaultCatalogPath = "config/catalog.defaults.json"

// BandDef is one positional value interval in the catalog file. Bands are
// stored positionally (low/medium/high by raw magnitude); polarity decides
// which position maps to which health role.
type BandDef struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// BandsDef groups the positional intervals for one KPI. Expansion is an
// optional tier beyond the best band.
type BandsDef struct {
	Low       *BandDef `json:"low,omitempty"`
	Medium    *BandDef `json:"medium,omitempty"`
	High      *BandDef `json:"high,omitempty"`
	Expansion *BandDef `json:"expansion,omitempty"`
}

// KPIDef describes one KPI in the catalog.
type KPIDef struct {
	Category       string   `json:"category"`
	Unit           string   `json:"unit"`
	HigherIsBetter bool     `json:"higher_is_better"`
	Bands          BandsDef `json:"bands"`
}

// Catalog is the parsed, validated catalog file.
type Catalog struct {
	KPIs           map[string]KPIDef               `json:"kpis"`
	WeightProfiles map[string]health.WeightProfile `json:"weight_profiles"`
}

// Load reads and validates a catalog JSON file. Mirrors the guard rails
// used elsewhere for operator-supplied JSON: extension check and a size
// cap before parsing.
func Load(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("catalog file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("catalog file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &cat, nil
}

// MustLoadDefault loads the canonical catalog, searching upward from the
// current directory so package tests can find it. Panics on failure;
// intended for test setup and tools.
func MustLoadDefault() *Catalog {
	candidates := []string{
		DefaultCatalogPath,
		"../" + DefaultCatalogPath,
		"../../" + DefaultCatalogPath,
		"../../../" + DefaultCatalogPath,
	}
	for _, path := range candidates {
		if cat, err := Load(path); err == nil {
			return cat
		}
	}
	panic("cannot find " + DefaultCatalogPath + " - run from repository root")
}

// Validate checks units, categories, and profile contents.
func (c *Catalog) Validate() error {
	if len(c.KPIs) == 0 {
		return fmt.Errorf("catalog defines no KPIs")
	}
	for name, def := range c.KPIs {
		if def.Category == "" {
			return fmt.Errorf("kpi %q has no category", name)
		}
		if !units.IsValid(def.Unit) {
			return fmt.Errorf("kpi %q has invalid unit %q (valid: %s)", name, def.Unit, units.GetValidUnitsString())
		}
		if def.Bands.Low == nil && def.Bands.Medium == nil && def.Bands.High == nil {
			return fmt.Errorf("kpi %q defines no bands", name)
		}
	}
	for profile, weights := range c.WeightProfiles {
		if len(weights) == 0 {
			return fmt.Errorf("weight profile %q is empty", profile)
		}
		for category, w := range weights {
			if w <= 0 {
				return fmt.Errorf("weight profile %q has non-positive weight for %q", profile, category)
			}
		}
	}
	return nil
}

// KPINames returns the catalog's KPI names in sorted order, for
// deterministic seeding and reporting.
func (c *Catalog) KPINames() []string {
	names := make([]string, 0, len(c.KPIs))
	for name := range c.KPIs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile returns the named weight profile.
func (c *Catalog) Profile(name string) (health.WeightProfile, bool) {
	p, ok := c.WeightProfiles[name]
	return p, ok
}

// ReferenceRange converts a catalog entry into a role-assigned reference
// range. Positional bands map to health roles according to polarity: for
// higher-is-better KPIs the high interval is healthy; for lower-is-better
// KPIs the low interval is healthy and the high interval is critical.
func (c *Catalog) ReferenceRange(kpiName string) (health.ReferenceRange, bool) {
	def, ok := c.KPIs[kpiName]
	if !ok {
		return health.ReferenceRange{}, false
	}

	rr := health.ReferenceRange{
		KPIName:        kpiName,
		Unit:           def.Unit,
		HigherIsBetter: def.HigherIsBetter,
	}
	toBand := func(b *BandDef) health.BandRange {
		if b == nil {
			return health.BandRange{}
		}
		return health.BandRange{Min: b.Min, Max: b.Max}
	}

	if def.HigherIsBetter {
		rr.Critical = toBand(def.Bands.Low)
		rr.Risk = toBand(def.Bands.Medium)
		rr.Healthy = toBand(def.Bands.High)
	} else {
		rr.Healthy = toBand(def.Bands.Low)
		rr.Risk = toBand(def.Bands.Medium)
		rr.Critical = toBand(def.Bands.High)
	}
	if def.Bands.Expansion != nil {
		exp := toBand(def.Bands.Expansion)
		rr.Expansion = &exp
	}
	return rr, true
}

// Category returns the category a KPI belongs to.
func (c *Catalog) Category(kpiName string) (string, bool) {
	def, ok := c.KPIs[kpiName]
	if !ok {
		return "", false
	}
	return def.Category, true
}
