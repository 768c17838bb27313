package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/account"
)

// AccountStoreForSeed defines the store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// SeedAdminInput carries the bootstrap admin credentials.
type SeedAdminInput struct {
	Username string
	Email    string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
}

// ExecuteSeedAdmin ensures a bootstrap admin account exists. Called at
// startup; a no-op when the username is already taken.
// POST: An active admin account with the given username exists
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) error {
	if _, err := deps.AccountStore.GetByUsername(ctx, input.Username); err == nil {
		return nil
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Username:  input.Username,
		Email:     input.Email,
		FullName:  "Administrator",
		Role:      account.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("admin_seeded", "username", input.Username)
	return nil
}
