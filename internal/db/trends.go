package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TrendPoint is one persisted health score snapshot. CategoryScores is
// the serialized per-category breakdown, stored as JSON and passed
// through to API clients without re-decoding.
type TrendPoint struct {
	AccountID      int64           `json:"account_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	OverallScore   float64         `json:"overall_score"`
	HealthStatus   string          `json:"health_status"`
	CategoryScores json.RawMessage `json:"category_scores"`
	KPICount       int             `json:"kpi_count"`
	ComputedAt     time.Time       `json:"computed_at"`
}

// UpsertTrend stores a snapshot for an account and period, replacing any
// earlier computation for the same period. Recomputing a period is
// routine (late uploads, range edits), so last write wins.
func (db *DB) UpsertTrend(p TrendPoint) error {
	_, err := db.Exec(`
		INSERT INTO health_trends (
			account_id, month, year, overall_score, health_status,
			category_scores, kpi_count, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, year, month) DO UPDATE SET
			overall_score = excluded.overall_score,
			health_status = excluded.health_status,
			category_scores = excluded.category_scores,
			kpi_count = excluded.kpi_count,
			computed_at = excluded.computed_at
	`, p.AccountID, p.Month, p.Year, p.OverallScore, p.HealthStatus,
		string(p.CategoryScores), p.KPICount, p.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert trend: %w", err)
	}
	return nil
}

// TrendsForAccount returns an account's snapshots in chronological order.
func (db *DB) TrendsForAccount(accountID int64) ([]TrendPoint, error) {
	rows, err := db.Query(`
		SELECT account_id, month, year, overall_score, health_status,
		       category_scores, kpi_count, computed_at
		FROM health_trends
		WHERE account_id = ?
		ORDER BY year, month
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		p, err := scanTrend(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// PreviousTrend returns the most recent snapshot strictly earlier than
// the given period, for threshold-crossing alert evaluation. ErrNotFound
// when the account has no earlier snapshot.
func (db *DB) PreviousTrend(accountID int64, year, month int) (*TrendPoint, error) {
	row := db.QueryRow(`
		SELECT account_id, month, year, overall_score, health_status,
		       category_scores, kpi_count, computed_at
		FROM health_trends
		WHERE account_id = ? AND (year < ? OR (year = ? AND month < ?))
		ORDER BY year DESC, month DESC
		LIMIT 1
	`, accountID, year, year, month)

	p, err := scanTrend(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTrend(s scanner) (TrendPoint, error) {
	var p TrendPoint
	var categoryScores string
	err := s.Scan(&p.AccountID, &p.Month, &p.Year, &p.OverallScore,
		&p.HealthStatus, &categoryScores, &p.KPICount, &p.ComputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan trend: %w", err)
	}
	p.CategoryScores = json.RawMessage(categoryScores)
	return p, nil
}
