package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/pulsekpi/pulse/internal/catalog"
	"github.com/pulsekpi/pulse/internal/health"
	"github.com/pulsekpi/pulse/internal/monitoring"
)

const rangeColumns = `customer_id, kpi_name, unit, higher_is_better,
	critical_min, critical_max, risk_min, risk_max,
	healthy_min, healthy_max, expansion_min, expansion_max`

// ResolveRange finds the applicable reference range for a KPI in a
// customer's scope: the customer's own override first, the system default
// otherwise. Implements health.RangeSource. Returns
// health.ErrRangeNotFound when neither row exists, which the scorer
// treats as "exclude this KPI" rather than a batch failure.
func (db *DB) ResolveRange(customerID int64, kpiName string) (health.ReferenceRange, error) {
	row := db.QueryRow(`
		SELECT `+rangeColumns+`
		FROM reference_ranges
		WHERE kpi_name = ? AND (customer_id = ? OR customer_id IS NULL)
		ORDER BY customer_id IS NULL
		LIMIT 1
	`, kpiName, customerID)

	rr, err := scanRange(row)
	if errors.Is(err, sql.ErrNoRows) {
		return health.ReferenceRange{}, health.ErrRangeNotFound
	}
	if err != nil {
		return health.ReferenceRange{}, fmt.Errorf("failed to resolve range for %q: %w", kpiName, err)
	}
	return rr, nil
}

// ListRanges returns the range set a customer resolves against: every
// system default, overlaid with the customer's overrides, sorted by KPI
// name.
func (db *DB) ListRanges(customerID int64) ([]health.ReferenceRange, error) {
	rows, err := db.Query(`
		SELECT `+rangeColumns+`
		FROM reference_ranges
		WHERE customer_id = ? OR customer_id IS NULL
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranges: %w", err)
	}
	defer rows.Close()

	// Customer overrides shadow defaults for the same KPI name.
	byName := make(map[string]health.ReferenceRange)
	for rows.Next() {
		rr, err := scanRange(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan range: %w", err)
		}
		if existing, ok := byName[rr.KPIName]; ok && existing.CustomerID != nil {
			continue
		}
		byName[rr.KPIName] = rr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]health.ReferenceRange, 0, len(byName))
	for _, rr := range byName {
		out = append(out, rr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KPIName < out[j].KPIName })
	return out, nil
}

// OverrideRange applies a customer edit copy-on-write: an existing
// override row is updated in place, otherwise a new customer-scoped row is
// inserted. The system default is never mutated. When two concurrent
// edits race to create the first override for the same (customer, KPI)
// pair, the loser gets a uniqueness violation (IsConflict); retrying is
// the caller's decision.
func (db *DB) OverrideRange(customerID int64, rr health.ReferenceRange) error {
	res, err := db.Exec(`
		UPDATE reference_ranges SET
			unit = ?, higher_is_better = ?,
			critical_min = ?, critical_max = ?,
			risk_min = ?, risk_max = ?,
			healthy_min = ?, healthy_max = ?,
			expansion_min = ?, expansion_max = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE customer_id = ? AND kpi_name = ?
	`, append(rangeArgs(rr), customerID, rr.KPIName)...)
	if err != nil {
		return fmt.Errorf("failed to update override: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = db.Exec(`
		INSERT INTO reference_ranges (
			customer_id, kpi_name, unit, higher_is_better,
			critical_min, critical_max, risk_min, risk_max,
			healthy_min, healthy_max, expansion_min, expansion_max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, append([]interface{}{customerID, rr.KPIName}, rangeArgs(rr)...)...)
	if err != nil {
		// Deliberately unwrapped so IsConflict sees the constraint text.
		return err
	}
	return nil
}

// DeleteOverride removes a customer's override, reverting the KPI to the
// system default. Deleting a nonexistent override is ErrNotFound.
func (db *DB) DeleteOverride(customerID int64, kpiName string) error {
	res, err := db.Exec(`
		DELETE FROM reference_ranges WHERE customer_id = ? AND kpi_name = ?
	`, customerID, kpiName)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedDefaultRanges inserts the catalog's system-default ranges,
// skipping KPIs that already have a default row. Returns the number of
// rows inserted.
func (db *DB) SeedDefaultRanges(cat *catalog.Catalog) (int, error) {
	inserted := 0
	for _, name := range cat.KPINames() {
		rr, ok := cat.ReferenceRange(name)
		if !ok {
			continue
		}
		res, err := db.Exec(`
			INSERT OR IGNORE INTO reference_ranges (
				customer_id, kpi_name, unit, higher_is_better,
				critical_min, critical_max, risk_min, risk_max,
				healthy_min, healthy_max, expansion_min, expansion_max
			) VALUES (NULL, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, append([]interface{}{rr.KPIName}, rangeArgs(rr)...)...)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed range for %q: %w", name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		} else {
			monitoring.Logf("seed: default range for %q already present", name)
		}
	}
	return inserted, nil
}

// rangeArgs flattens a range's value columns in insert/update order,
// starting at unit.
func rangeArgs(rr health.ReferenceRange) []interface{} {
	var expMin, expMax *float64
	if rr.Expansion != nil {
		expMin, expMax = rr.Expansion.Min, rr.Expansion.Max
	}
	return []interface{}{
		rr.Unit, rr.HigherIsBetter,
		rr.Critical.Min, rr.Critical.Max,
		rr.Risk.Min, rr.Risk.Max,
		rr.Healthy.Min, rr.Healthy.Max,
		expMin, expMax,
	}
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRange(s scanner) (health.ReferenceRange, error) {
	var rr health.ReferenceRange
	var customerID sql.NullInt64
	var critMin, critMax, riskMin, riskMax, healthyMin, healthyMax, expMin, expMax sql.NullFloat64

	err := s.Scan(&customerID, &rr.KPIName, &rr.Unit, &rr.HigherIsBetter,
		&critMin, &critMax, &riskMin, &riskMax,
		&healthyMin, &healthyMax, &expMin, &expMax)
	if err != nil {
		return rr, err
	}

	if customerID.Valid {
		rr.CustomerID = &customerID.Int64
	}
	rr.Critical = health.BandRange{Min: nullToPtr(critMin), Max: nullToPtr(critMax)}
	rr.Risk = health.BandRange{Min: nullToPtr(riskMin), Max: nullToPtr(riskMax)}
	rr.Healthy = health.BandRange{Min: nullToPtr(healthyMin), Max: nullToPtr(healthyMax)}
	if expMin.Valid || expMax.Valid {
		rr.Expansion = &health.BandRange{Min: nullToPtr(expMin), Max: nullToPtr(expMax)}
	}
	return rr, nil
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
