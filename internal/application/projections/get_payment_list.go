package projections

import (
	"context"
	"time"

	"gymdesk/internal/adapters/storage/payment"
	"gymdesk/internal/application/listutil"
	domain "gymdesk/internal/domain/payment"
)

// PaymentStore defines the payment reads used by projections.
type PaymentStore interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	Count(ctx context.Context, filter payment.ListFilter) (int, error)
	List(ctx context.Context, filter payment.ListFilter) ([]domain.Payment, error)
	CompletedTotal(ctx context.Context) (int, error)
}

// PaymentRow is one line of the payment list page.
type PaymentRow struct {
	ID          string
	MemberID    string
	MemberName  string
	Reference   string
	Method      string
	Amount      int // cents
	Plan        string
	ReceiptPath string
	Status      string
	PaidAt      time.Time
	ReviewedBy  string
	CreatedAt   time.Time
}

// GetPaymentListResult carries the query result.
type GetPaymentListResult struct {
	Payments []PaymentRow
	PageInfo listutil.PageInfo
}

// GetPaymentListDeps holds dependencies for GetPaymentList.
type GetPaymentListDeps struct {
	PaymentStore PaymentStore
	MemberStore  MemberStore
}

// PaymentSortColumns are the sortable columns of the payment list.
var PaymentSortColumns = []string{"created_at", "amount", "status", "method"}

// QueryGetPaymentList retrieves one page of payments with member names.
// MemberID, when set, restricts the listing to that member's own payments.
func QueryGetPaymentList(ctx context.Context, memberID string, query listutil.Query, deps GetPaymentListDeps) (GetPaymentListResult, error) {
	filter := payment.ListFilter{
		MemberID: memberID,
		Status:   query.Filters["status"],
		Method:   query.Filters["method"],
		Search:   query.Search,
		Sort:     query.Sort,
		Dir:      query.Dir,
	}

	total, err := deps.PaymentStore.Count(ctx, filter)
	if err != nil {
		return GetPaymentListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	payments, err := deps.PaymentStore.List(ctx, filter)
	if err != nil {
		return GetPaymentListResult{}, err
	}

	names := make(map[string]string)
	rows := make([]PaymentRow, 0, len(payments))
	for _, p := range payments {
		name, ok := names[p.MemberID]
		if !ok {
			if m, err := deps.MemberStore.GetByID(ctx, p.MemberID); err == nil {
				name = m.Name
			}
			names[p.MemberID] = name
		}
		rows = append(rows, PaymentRow{
			ID:          p.ID,
			MemberID:    p.MemberID,
			MemberName:  name,
			Reference:   p.Reference,
			Method:      p.Method,
			Amount:      p.Amount,
			Plan:        p.Plan,
			ReceiptPath: p.ReceiptPath,
			Status:      p.Status,
			PaidAt:      p.PaidAt,
			ReviewedBy:  p.ReviewedBy,
			CreatedAt:   p.CreatedAt,
		})
	}

	return GetPaymentListResult{Payments: rows, PageInfo: pageInfo}, nil
}
