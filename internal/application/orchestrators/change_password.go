package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/internal/domain/account"
)

// AccountStoreForPassword defines the store interface needed by ChangePassword.
type AccountStoreForPassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	DeleteRememberTokensForAccount(ctx context.Context, accountID string) error
}

// ChangePasswordInput carries input for the orchestrator.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForPassword
}

var ErrSamePassword = errors.New("new password must differ from the current one")

// ExecuteChangePassword rotates an account password.
// PRE: Caller is authenticated as AccountID
// POST: New hash stored; all remember tokens revoked
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return err
	}

	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		return err
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrSamePassword
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}
	// Old remember cookies must not survive a password change.
	_ = deps.AccountStore.DeleteRememberTokensForAccount(ctx, acct.ID)

	slog.Info("auth_event", "event", "password_changed", "account_id", acct.ID)
	return nil
}
