package orchestrators

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/account"
)

// RememberTokenTTL is how long a remember-me token stays valid.
const RememberTokenTTL = 30 * 24 * time.Hour

// AccountStoreForRemember defines the store interface needed by the
// remember-me orchestrators.
type AccountStoreForRemember interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	SaveRememberToken(ctx context.Context, token account.RememberToken) error
	GetRememberTokenByHash(ctx context.Context, tokenHash string) (account.RememberToken, error)
	DeleteRememberTokensForAccount(ctx context.Context, accountID string) error
}

// RememberDeps holds dependencies for the remember-me orchestrators.
type RememberDeps struct {
	AccountStore AccountStoreForRemember
	Now          func() time.Time
}

var ErrInvalidRememberToken = errors.New("remember token is invalid or expired")

// hashToken derives the stored form of a raw token. Only the hash ever
// touches the database.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ExecuteIssueRememberToken mints a new remember-me token for an account.
// PRE: accountID exists
// POST: Returns the raw token for the cookie; only its hash is persisted
func ExecuteIssueRememberToken(ctx context.Context, accountID string, deps RememberDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := hex.EncodeToString(buf)

	token := account.RememberToken{
		ID:        uuid.New().String(),
		AccountID: accountID,
		TokenHash: hashToken(raw),
		ExpiresAt: now().Add(RememberTokenTTL),
		CreatedAt: now(),
	}
	if err := deps.AccountStore.SaveRememberToken(ctx, token); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "remember_token_issued", "account_id", accountID)
	return raw, nil
}

// ExecuteRedeemRememberToken re-establishes a session from a raw cookie token.
// PRE: raw is the cookie value
// POST: Returns login info, or ErrInvalidRememberToken if unknown/expired
// or the account can no longer log in
func ExecuteRedeemRememberToken(ctx context.Context, raw string, deps RememberDeps) (LoginResult, error) {
	if raw == "" {
		return LoginResult{}, ErrInvalidRememberToken
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	token, err := deps.AccountStore.GetRememberTokenByHash(ctx, hashToken(raw))
	if err != nil {
		return LoginResult{}, ErrInvalidRememberToken
	}
	if token.IsExpired(now()) {
		_ = deps.AccountStore.DeleteRememberTokensForAccount(ctx, token.AccountID)
		return LoginResult{}, ErrInvalidRememberToken
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil || !acct.IsActive {
		return LoginResult{}, ErrInvalidRememberToken
	}

	slog.Info("auth_event", "event", "remember_token_redeemed", "account_id", acct.ID)
	return LoginResult{
		AccountID: acct.ID,
		Username:  acct.Username,
		Email:     acct.Email,
		FullName:  acct.FullName,
		Role:      acct.Role,
	}, nil
}

// ExecuteForgetAccount revokes every remember token for an account.
// POST: No remember tokens remain; existing cookies become useless
func ExecuteForgetAccount(ctx context.Context, accountID string, deps RememberDeps) error {
	return deps.AccountStore.DeleteRememberTokensForAccount(ctx, accountID)
}
