package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries input for the login orchestrator. Identifier may be
// an email address or a username.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Username  string
	Email     string
	FullName  string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
)

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: Identifier and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: Account must be active and not locked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Identifier == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	var acct account.Account
	var err error
	if strings.Contains(input.Identifier, "@") {
		acct, err = deps.AccountStore.GetByEmail(ctx, input.Identifier)
	} else {
		acct, err = deps.AccountStore.GetByUsername(ctx, input.Identifier)
	}
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "identifier", input.Identifier, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !acct.IsActive {
		slog.Info("auth_event", "event", "login_blocked", "identifier", input.Identifier, "reason", "deactivated")
		return LoginResult{}, account.ErrAccountDeactivated
	}

	if acct.IsLocked() {
		slog.Info("auth_event", "event", "login_blocked", "identifier", input.Identifier, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin()
		_ = deps.AccountStore.Save(ctx, acct)
		slog.Info("auth_event", "event", "login_failed", "identifier", input.Identifier, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	acct.RecordLogin(now())
	_ = deps.AccountStore.Save(ctx, acct)

	slog.Info("auth_event", "event", "login_success", "identifier", input.Identifier, "role", acct.Role)

	return LoginResult{
		AccountID: acct.ID,
		Username:  acct.Username,
		Email:     acct.Email,
		FullName:  acct.FullName,
		Role:      acct.Role,
	}, nil
}
