package member

import (
	"context"

	accountdomain "gymdesk/internal/domain/account"
	domain "gymdesk/internal/domain/member"
)

// ListFilter narrows and pages member listings.
type ListFilter struct {
	Limit  int
	Offset int
	Plan   string
	Status string
	Search string
	Sort   string
	Dir    string
}

// Store persists Member state and admin notes.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	// CreateWithAccount inserts the login account and the member profile in
	// one transaction. Either both rows exist afterwards or neither does.
	CreateWithAccount(ctx context.Context, acct accountdomain.Account, m domain.Member) error
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)

	SaveNote(ctx context.Context, note domain.Note) error
	ListNotes(ctx context.Context, memberID string) ([]domain.Note, error)
}
