package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = "id, username, email, password_hash, full_name, role, is_active, failed_logins, locked_until, last_login, created_at"

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var entity domain.Account
	var isActive int
	var lockedUntil, lastLogin sql.NullString
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.Username,
		&entity.Email,
		&entity.PasswordHash,
		&entity.FullName,
		&entity.Role,
		&isActive,
		&entity.FailedLogins,
		&lockedUntil,
		&lastLogin,
		&createdAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.IsActive = isActive != 0
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = time.Parse(time.RFC3339, lockedUntil.String)
	}
	if lastLogin.Valid && lastLogin.String != "" {
		entity.LastLogin, _ = time.Parse(time.RFC3339, lastLogin.String)
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return entity, nil
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	entity, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", email)
	entity, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// GetByUsername retrieves an Account by username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE username = ?", username)
	entity, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// Save persists an Account (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	query := `INSERT INTO account (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username,
			email=excluded.email,
			password_hash=excluded.password_hash,
			full_name=excluded.full_name,
			role=excluded.role,
			is_active=excluded.is_active,
			failed_logins=excluded.failed_logins,
			locked_until=excluded.locked_until,
			last_login=excluded.last_login`

	isActive := 0
	if entity.IsActive {
		isActive = 1
	}
	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Username,
		entity.Email,
		entity.PasswordHash,
		entity.FullName,
		entity.Role,
		isActive,
		entity.FailedLogins,
		nullableTime(entity.LockedUntil),
		nullableTime(entity.LastLogin),
		createdAt.Format(time.RFC3339),
	)
	return err
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// SaveRememberToken persists a remember token.
// PRE: token fields are populated; TokenHash is a hash, never the raw token
// POST: Token row is inserted
func (s *SQLiteStore) SaveRememberToken(ctx context.Context, token domain.RememberToken) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO remember_token (id, account_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?, ?)",
		token.ID,
		token.AccountID,
		token.TokenHash,
		token.ExpiresAt.Format(time.RFC3339),
		token.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetRememberTokenByHash retrieves a remember token by its hash.
// PRE: tokenHash is non-empty
// POST: Returns the token or an error if not found
func (s *SQLiteStore) GetRememberTokenByHash(ctx context.Context, tokenHash string) (domain.RememberToken, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_id, token_hash, expires_at, created_at FROM remember_token WHERE token_hash = ?",
		tokenHash,
	)
	var t domain.RememberToken
	var expiresAt, createdAt string
	err := row.Scan(&t.ID, &t.AccountID, &t.TokenHash, &expiresAt, &createdAt)
	if err == sql.ErrNoRows {
		return domain.RememberToken{}, fmt.Errorf("remember token not found: %w", err)
	}
	if err != nil {
		return domain.RememberToken{}, err
	}
	t.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

// DeleteRememberTokensForAccount removes all remember tokens for an account.
// POST: No tokens remain for the account
func (s *SQLiteStore) DeleteRememberTokensForAccount(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM remember_token WHERE account_id = ?", accountID)
	return err
}

// nullableTime formats a time as RFC 3339 or returns nil for the zero value.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
