package db

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pulsekpi/pulse/internal/health"
)

// InsertKPIRecords stores a batch of uploaded KPI records for one account
// and reporting period in a single transaction. Returns the number of
// rows inserted.
func (db *DB) InsertKPIRecords(accountID int64, month, year int, records []health.KPIRecord) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO kpi_records (
			id, account_id, kpi_name, category, impact_level,
			raw_value, period_month, period_year
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(uuid.NewString(), accountID, rec.KPIName, rec.Category,
			rec.ImpactLevel, rec.RawValue, month, year); err != nil {
			return 0, fmt.Errorf("failed to insert kpi record %q: %w", rec.KPIName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit kpi records: %w", err)
	}
	return len(records), nil
}

// KPIRecordsForPeriod loads the records uploaded for one account and
// reporting period, in upload order.
func (db *DB) KPIRecordsForPeriod(accountID int64, month, year int) ([]health.KPIRecord, error) {
	rows, err := db.Query(`
		SELECT kpi_name, category, impact_level, raw_value
		FROM kpi_records
		WHERE account_id = ? AND period_month = ? AND period_year = ?
		ORDER BY rowid
	`, accountID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query kpi records: %w", err)
	}
	defer rows.Close()

	var records []health.KPIRecord
	for rows.Next() {
		var rec health.KPIRecord
		if err := rows.Scan(&rec.KPIName, &rec.Category, &rec.ImpactLevel, &rec.RawValue); err != nil {
			return nil, fmt.Errorf("failed to scan kpi record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
