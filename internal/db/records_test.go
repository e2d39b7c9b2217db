package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pulsekpi/pulse/internal/health"
)

func TestInsertAndLoadKPIRecords(t *testing.T) {
	db := setupTestDB(t)
	_, accountID := createTestCustomerAccount(t, db, "Acme")

	records := []health.KPIRecord{
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "High", RawValue: "85%"},
		{KPIName: "Time to First Value", Category: "Product Usage", ImpactLevel: "Medium", RawValue: "21 hours"},
		{KPIName: "NPS Score", Category: "Customer Sentiment", ImpactLevel: "High", RawValue: "42"},
	}

	n, err := db.InsertKPIRecords(accountID, 3, 2026, records)
	if err != nil {
		t.Fatalf("InsertKPIRecords failed: %v", err)
	}
	if n != len(records) {
		t.Errorf("inserted %d records, want %d", n, len(records))
	}

	got, err := db.KPIRecordsForPeriod(accountID, 3, 2026)
	if err != nil {
		t.Fatalf("KPIRecordsForPeriod failed: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round-tripped records mismatch (-want +got):\n%s", diff)
	}
}

func TestKPIRecordsScopedToPeriod(t *testing.T) {
	db := setupTestDB(t)
	_, accountID := createTestCustomerAccount(t, db, "Acme")

	march := []health.KPIRecord{
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "High", RawValue: "60%"},
	}
	april := []health.KPIRecord{
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "High", RawValue: "85%"},
	}
	if _, err := db.InsertKPIRecords(accountID, 3, 2026, march); err != nil {
		t.Fatalf("insert march: %v", err)
	}
	if _, err := db.InsertKPIRecords(accountID, 4, 2026, april); err != nil {
		t.Fatalf("insert april: %v", err)
	}

	got, err := db.KPIRecordsForPeriod(accountID, 4, 2026)
	if err != nil {
		t.Fatalf("KPIRecordsForPeriod failed: %v", err)
	}
	if len(got) != 1 || got[0].RawValue != "85%" {
		t.Errorf("april records = %+v, want only the 85%% upload", got)
	}
}

func TestKPIRecordsForPeriodEmpty(t *testing.T) {
	db := setupTestDB(t)
	_, accountID := createTestCustomerAccount(t, db, "Acme")

	got, err := db.KPIRecordsForPeriod(accountID, 1, 2026)
	if err != nil {
		t.Fatalf("KPIRecordsForPeriod failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records for empty period, want 0", len(got))
	}
}

func TestInsertKPIRecordsRejectsUnknownAccount(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.InsertKPIRecords(9999, 3, 2026, []health.KPIRecord{
		{KPIName: "Activation Rate", Category: "Product Usage", ImpactLevel: "High", RawValue: "85%"},
	})
	if err == nil {
		t.Fatal("expected foreign key violation for unknown account")
	}
}
