package trainer

import (
	"context"

	accountdomain "gymdesk/internal/domain/account"
	domain "gymdesk/internal/domain/trainer"
)

// ListFilter narrows and pages trainer listings.
type ListFilter struct {
	Limit     int
	Offset    int
	Specialty string
	Search    string
	Sort      string
	Dir       string
}

// Store persists Trainer state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Trainer, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Trainer, error)
	Save(ctx context.Context, value domain.Trainer) error
	// CreateWithAccount inserts the login account and the trainer profile
	// in one transaction.
	CreateWithAccount(ctx context.Context, acct accountdomain.Account, tr domain.Trainer) error
	// DeleteWithDeactivate hard-deletes the trainer row and deactivates the
	// parent account in one transaction.
	DeleteWithDeactivate(ctx context.Context, id string) error
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error)
}
