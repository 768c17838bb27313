package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/report"
)

// TestQueryGetReport verifies validation, the structural check and the
// attachment filename.
func TestQueryGetReport(t *testing.T) {
	store := &fakeReportStore{table: report.Table{
		Headers: []string{"Name", "Plan"},
		Rows:    [][]string{{"Alice", "Warrior"}},
		Summary: report.Summary{Label: "Total Members", Count: 1},
	}}
	deps := GetReportDeps{
		ReportStore: store,
		Now:         func() time.Time { return time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC) },
	}
	ctx := context.Background()

	result, err := QueryGetReport(ctx, report.Params{Type: report.TypeMembership}, deps)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if result.Filename != "membership-report-2026-08-29.csv" {
		t.Errorf("filename = %q", result.Filename)
	}
	if len(result.Table.Rows) != 1 {
		t.Errorf("got %+v", result.Table)
	}

	if _, err := QueryGetReport(ctx, report.Params{Type: "payroll"}, deps); !errors.Is(err, report.ErrInvalidType) {
		t.Errorf("got %v, want ErrInvalidType", err)
	}

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := QueryGetReport(ctx, report.Params{Type: report.TypeRevenue, From: from, To: to}, deps); !errors.Is(err, report.ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

// TestQueryGetReport_RaggedTable verifies a malformed table is rejected
// before it reaches the renderer.
func TestQueryGetReport_RaggedTable(t *testing.T) {
	store := &fakeReportStore{table: report.Table{
		Headers: []string{"Name", "Plan"},
		Rows:    [][]string{{"Alice"}},
	}}
	deps := GetReportDeps{ReportStore: store}

	if _, err := QueryGetReport(context.Background(), report.Params{Type: report.TypeMembership}, deps); !errors.Is(err, report.ErrRaggedTable) {
		t.Errorf("got %v, want ErrRaggedTable", err)
	}
}
