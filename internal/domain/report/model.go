package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"
)

// Report type constants
const (
	TypeMembership = "membership"
	TypeRevenue    = "revenue"
	TypeAttendance = "attendance"
	TypeEquipment  = "equipment"
)

// ValidTypes contains all report types.
var ValidTypes = []string{TypeMembership, TypeRevenue, TypeAttendance, TypeEquipment}

// Domain errors
var (
	ErrInvalidType  = errors.New("report type must be one of: membership, revenue, attendance, equipment")
	ErrInvalidRange = errors.New("start date must not be after end date")
	ErrRaggedTable  = errors.New("every row must have the same width as the header")
)

// Params selects a report: type plus an inclusive date range.
type Params struct {
	Type string
	From time.Time
	To   time.Time
}

// Validate checks the report parameters.
// POST: Returns nil if valid, error otherwise
func (p *Params) Validate() error {
	if !isValidType(p.Type) {
		return ErrInvalidType
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return ErrInvalidRange
	}
	return nil
}

// IsValidationError reports whether err is a parameter validation error,
// as opposed to a storage failure while building the report.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidRange)
}

// Summary is the aggregate row computed over the same filter as the detail rows.
type Summary struct {
	Label   string
	Count   int
	Total   int // cents, revenue reports only
	Average float64
}

// Table is the tabular report result: one header row plus one row per
// detail record, values in header column order. Re-parsing a rendered
// export reproduces the same header and row count.
type Table struct {
	Headers []string
	Rows    [][]string
	Summary Summary
}

// Check verifies the structural invariant: every row matches the header width.
func (t *Table) Check() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d columns, header has %d: %w", i, len(row), len(t.Headers), ErrRaggedTable)
		}
	}
	return nil
}

// RenderCSV writes the header row followed by one line per record,
// fields quoted per standard CSV rules.
// PRE: Check() passes
// POST: Returns CSV bytes; first line is the header row
func (t *Table) RenderCSV() ([]byte, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the attachment name for a CSV download.
func Filename(reportType string, now time.Time) string {
	return fmt.Sprintf("%s-report-%s.csv", reportType, now.Format("2006-01-02"))
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
