package account

import (
	"context"

	domain "gymdesk/internal/domain/account"
)

// Store persists Account state and remember tokens.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)

	SaveRememberToken(ctx context.Context, token domain.RememberToken) error
	GetRememberTokenByHash(ctx context.Context, tokenHash string) (domain.RememberToken, error)
	DeleteRememberTokensForAccount(ctx context.Context, accountID string) error
}
