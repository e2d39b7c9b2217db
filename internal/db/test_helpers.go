package db

import (
	"path/filepath"
	"testing"

	"github.com/pulsekpi/pulse/internal/health"
)

// Helper functions for creating pointer values
func floatPtr(f float64) *float64 {
	return &f
}

// setupTestDB creates a fresh migrated database under the test's temp dir.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestCustomerAccount creates a customer with one account and
// returns both ids.
func createTestCustomerAccount(t *testing.T, db *DB, customerName string) (customerID, accountID int64) {
	t.Helper()
	customerID, err := db.CreateCustomer(customerName)
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	accountID, err = db.CreateAccount(customerID, customerName+" Production")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	return customerID, accountID
}

// testActivationRange is a higher-is-better percentage range used across
// repository tests.
func testActivationRange() health.ReferenceRange {
	return health.ReferenceRange{
		KPIName:        "Activation Rate",
		Unit:           "percent",
		HigherIsBetter: true,
		Critical:       health.BandRange{Min: floatPtr(0), Max: floatPtr(40)},
		Risk:           health.BandRange{Min: floatPtr(40), Max: floatPtr(70)},
		Healthy:        health.BandRange{Min: floatPtr(70)},
	}
}

// seedDefaultRange inserts a system-default row for the given range.
func seedDefaultRange(t *testing.T, db *DB, rr health.ReferenceRange) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO reference_ranges (
			customer_id, kpi_name, unit, higher_is_better,
			critical_min, critical_max, risk_min, risk_max,
			healthy_min, healthy_max, expansion_min, expansion_max
		) VALUES (NULL, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, append([]interface{}{rr.KPIName}, rangeArgs(rr)...)...)
	if err != nil {
		t.Fatalf("failed to seed default range for %q: %v", rr.KPIName, err)
	}
}
