package report

import (
	"context"

	domain "gymdesk/internal/domain/report"
)

// Store builds report tables. Detail rows and the summary are computed
// over the same filter, so they always agree.
type Store interface {
	Build(ctx context.Context, params domain.Params) (domain.Table, error)
}
