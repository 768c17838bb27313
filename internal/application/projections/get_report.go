package projections

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/report"
)

// ReportStore builds report tables straight from SQL.
type ReportStore interface {
	Build(ctx context.Context, params domain.Params) (domain.Table, error)
}

// GetReportDeps holds dependencies for GetReport.
type GetReportDeps struct {
	ReportStore ReportStore
	Now         func() time.Time
}

// ReportResult is a built report ready for page render or CSV download.
type ReportResult struct {
	Params   domain.Params
	Table    domain.Table
	Filename string
}

// QueryGetReport validates the parameters, builds the table and names
// the CSV attachment.
// PRE: params.Type names a known report
// POST: Table.Check() passes; Summary is computed over the same filter
// as the detail rows
func QueryGetReport(ctx context.Context, params domain.Params, deps GetReportDeps) (ReportResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	if err := params.Validate(); err != nil {
		return ReportResult{}, err
	}
	table, err := deps.ReportStore.Build(ctx, params)
	if err != nil {
		return ReportResult{}, err
	}
	if err := table.Check(); err != nil {
		return ReportResult{}, err
	}
	return ReportResult{
		Params:   params,
		Table:    table,
		Filename: domain.Filename(params.Type, now()),
	}, nil
}
