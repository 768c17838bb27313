package payment

import (
	"context"

	domain "gymdesk/internal/domain/payment"
)

// ListFilter narrows and pages payment listings.
type ListFilter struct {
	Limit    int
	Offset   int
	MemberID string
	Status   string
	Method   string
	Search   string
	Sort     string
	Dir      string
}

// Store persists Payment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	GetByReference(ctx context.Context, reference string) (domain.Payment, error)
	// Save persists the payment. Inserting a duplicate reference returns
	// payment.ErrDuplicateReference.
	Save(ctx context.Context, value domain.Payment) error
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Payment, error)
	// CompletedTotal sums the amount of completed payments, in cents.
	CompletedTotal(ctx context.Context) (int, error)
}
