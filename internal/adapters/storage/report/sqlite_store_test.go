package report

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/report"
)

// openTestStore creates a migrated in-memory database and store.
func openTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewSQLiteStore(db), db
}

func seedReportData(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO account (id, username, email, role, created_at) VALUES ('a1', 'jane', 'jane@test.com', 'member', '2026-01-01T00:00:00Z')`,
		`INSERT INTO account (id, username, email, role, created_at) VALUES ('a2', 'bob', 'bob@test.com', 'member', '2026-01-01T00:00:00Z')`,
		`INSERT INTO member (id, account_id, name, age, plan, email, status, join_date) VALUES ('m1', 'a1', 'Jane', 30, 'Warrior', 'jane@test.com', 'active', '2026-01-10T00:00:00Z')`,
		`INSERT INTO member (id, account_id, name, age, plan, email, status, join_date) VALUES ('m2', 'a2', 'Bob', 40, 'Legend', 'bob@test.com', 'inactive', '2026-03-10T00:00:00Z')`,
		`INSERT INTO payment (id, member_id, reference, method, amount, status, paid_at, created_at) VALUES ('p1', 'm1', 'REF-001', 'cash', 4900, 'completed', '2026-02-01T10:00:00Z', '2026-02-01T09:00:00Z')`,
		`INSERT INTO payment (id, member_id, reference, method, amount, status, paid_at, created_at) VALUES ('p2', 'm2', 'REF-002', 'card', 12900, 'completed', '2026-04-01T10:00:00Z', '2026-04-01T09:00:00Z')`,
		`INSERT INTO payment (id, member_id, reference, method, amount, status, created_at) VALUES ('p3', 'm1', 'REF-003', 'bank', 4900, 'pending', '2026-05-01T09:00:00Z')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

// TestRevenueReport verifies only completed payments appear and the
// summary totals the same rows as the detail section.
func TestRevenueReport(t *testing.T) {
	store, db := openTestStore(t)
	seedReportData(t, db)

	table, err := store.Build(context.Background(), domain.Params{Type: domain.TypeRevenue})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := table.Check(); err != nil {
		t.Fatalf("ragged table: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (pending excluded)", len(table.Rows))
	}
	if table.Summary.Count != len(table.Rows) {
		t.Errorf("summary count %d disagrees with %d detail rows", table.Summary.Count, len(table.Rows))
	}
	if table.Summary.Total != 17800 {
		t.Errorf("total = %d, want 17800", table.Summary.Total)
	}
}

// TestRevenueReport_DateRange verifies the inclusive date filter bounds
// both the rows and the summary.
func TestRevenueReport_DateRange(t *testing.T) {
	store, db := openTestStore(t)
	seedReportData(t, db)

	params := domain.Params{
		Type: domain.TypeRevenue,
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	table, err := store.Build(context.Background(), params)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}
	if table.Rows[0][0] != "REF-002" {
		t.Errorf("got %v", table.Rows[0])
	}
	if table.Summary.Total != 12900 || table.Summary.Count != 1 {
		t.Errorf("summary = %+v", table.Summary)
	}
}

// TestMembershipReport verifies row shape and count.
func TestMembershipReport(t *testing.T) {
	store, db := openTestStore(t)
	seedReportData(t, db)

	table, err := store.Build(context.Background(), domain.Params{Type: domain.TypeMembership})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := table.Check(); err != nil {
		t.Fatalf("ragged table: %v", err)
	}
	if len(table.Rows) != 2 || table.Summary.Count != 2 {
		t.Errorf("rows=%d summary=%+v", len(table.Rows), table.Summary)
	}
	// join_date ascending
	if table.Rows[0][0] != "Jane" || table.Rows[1][0] != "Bob" {
		t.Errorf("got %v", table.Rows)
	}
}

// TestBuild_InvalidType verifies unknown types are rejected.
func TestBuild_InvalidType(t *testing.T) {
	store, _ := openTestStore(t)
	if _, err := store.Build(context.Background(), domain.Params{Type: "profit"}); err != domain.ErrInvalidType {
		t.Errorf("got %v, want ErrInvalidType", err)
	}
}
