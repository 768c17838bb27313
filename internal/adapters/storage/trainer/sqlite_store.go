package trainer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	accountdomain "gymdesk/internal/domain/account"
	domain "gymdesk/internal/domain/trainer"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new trainer store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const trainerColumns = "id, account_id, specialty, certification, years_experience, rating, bio"

func scanTrainer(row interface{ Scan(...any) error }) (domain.Trainer, error) {
	var entity domain.Trainer
	err := row.Scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Specialty,
		&entity.Certification,
		&entity.YearsExp,
		&entity.Rating,
		&entity.Bio,
	)
	return entity, err
}

// GetByID retrieves a Trainer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE id = ?", id)
	entity, err := scanTrainer(row)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// GetByAccountID retrieves a Trainer by its linked account ID.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE account_id = ?", accountID)
	entity, err := scanTrainer(row)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// Save persists a Trainer (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Trainer) error {
	query := `INSERT INTO trainer (` + trainerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id=excluded.account_id,
			specialty=excluded.specialty,
			certification=excluded.certification,
			years_experience=excluded.years_experience,
			rating=excluded.rating,
			bio=excluded.bio`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.AccountID,
		entity.Specialty,
		entity.Certification,
		entity.YearsExp,
		entity.Rating,
		entity.Bio,
	)
	return err
}

// CreateWithAccount inserts account and trainer rows in one transaction.
// PRE: both entities have been validated and acct.ID == tr.AccountID
// POST: both rows exist, or neither does
func (s *SQLiteStore) CreateWithAccount(ctx context.Context, acct accountdomain.Account, tr domain.Trainer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	isActive := 0
	if acct.IsActive {
		isActive = 1
	}
	createdAt := acct.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO account (id, username, email, password_hash, full_name, role, is_active, failed_logins, locked_until, last_login, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL, NULL, ?)`,
		acct.ID, acct.Username, acct.Email, acct.PasswordHash, acct.FullName, acct.Role, isActive,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trainer (id, account_id, specialty, certification, years_experience, rating, bio)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.AccountID, tr.Specialty, tr.Certification, tr.YearsExp, tr.Rating, tr.Bio,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trainer: %w", err)
	}

	return tx.Commit()
}

// DeleteWithDeactivate removes the trainer row and deactivates its account
// in one transaction.
// PRE: id is non-empty
// POST: trainer row is gone and account.is_active = 0, or nothing changed
func (s *SQLiteStore) DeleteWithDeactivate(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var accountID string
	err = tx.QueryRowContext(ctx, "SELECT account_id FROM trainer WHERE id = ?", id).Scan(&accountID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("trainer not found: %w", err)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trainer WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE account SET is_active = 0 WHERE id = ?", accountID); err != nil {
		return err
	}

	return tx.Commit()
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Specialty != "" {
		where += " AND specialty = ?"
		args = append(args, filter.Specialty)
	}
	if filter.Search != "" {
		where += " AND (specialty LIKE ? OR certification LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"specialty": "specialty",
		"years":     "years_experience",
		"rating":    "rating",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY specialty ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of trainers matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trainer"+where, args...).Scan(&count)
	return count, err
}

// List retrieves trainers matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + trainerColumns + " FROM trainer" + where
	query += sortClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainer
	for rows.Next() {
		entity, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
