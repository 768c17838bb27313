package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"
)

// TestParamsValidate verifies type and range validation.
func TestParamsValidate(t *testing.T) {
	p := Params{Type: TypeRevenue}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Type = "profit"
	if err := p.Validate(); err != ErrInvalidType {
		t.Errorf("got %v, want ErrInvalidType", err)
	}

	p = Params{
		Type: TypeMembership,
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := p.Validate(); err != ErrInvalidRange {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

// TestRenderCSV_RoundTrip verifies that re-parsing the export reproduces
// the same header and row count as the table.
func TestRenderCSV_RoundTrip(t *testing.T) {
	table := Table{
		Headers: []string{"Name", "Plan", "Status"},
		Rows: [][]string{
			{"Jane Doe", "Champion", "active"},
			{"Bob, Jr.", "Warrior", "inactive"},
			{`Quote "Q" Smith`, "Legend", "active"},
		},
	}

	out, err := table.RenderCSV()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != len(table.Rows)+1 {
		t.Fatalf("got %d lines, want %d", len(records), len(table.Rows)+1)
	}
	for i, h := range table.Headers {
		if records[0][i] != h {
			t.Errorf("header[%d]=%q want %q", i, records[0][i], h)
		}
	}
	for i, row := range records[1:] {
		if len(row) != len(table.Headers) {
			t.Errorf("row %d width=%d want %d", i, len(row), len(table.Headers))
		}
	}
	// Embedded comma and quote survive the trip
	if records[2][0] != "Bob, Jr." || records[3][0] != `Quote "Q" Smith` {
		t.Error("CSV quoting mangled field values")
	}
}

// TestRenderCSV_Ragged verifies the width invariant is enforced.
func TestRenderCSV_Ragged(t *testing.T) {
	table := Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1", "2"}, {"only-one"}},
	}
	if _, err := table.RenderCSV(); !errors.Is(err, ErrRaggedTable) {
		t.Errorf("got %v, want ErrRaggedTable", err)
	}
}

// TestFilename verifies the attachment name format.
func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	if got := Filename(TypeEquipment, now); got != "equipment-report-2026-08-29.csv" {
		t.Errorf("got %q", got)
	}
}
