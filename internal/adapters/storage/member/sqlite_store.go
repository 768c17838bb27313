package member

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	accountdomain "gymdesk/internal/domain/account"
	domain "gymdesk/internal/domain/member"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "id, account_id, name, age, plan, contact, email, status, join_date"

func scanMember(row interface{ Scan(...any) error }) (domain.Member, error) {
	var entity domain.Member
	var joinDate string
	err := row.Scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Name,
		&entity.Age,
		&entity.Plan,
		&entity.Contact,
		&entity.Email,
		&entity.Status,
		&joinDate,
	)
	if err != nil {
		return domain.Member{}, err
	}
	entity.JoinDate, _ = time.Parse(time.RFC3339, joinDate)
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Member by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE email = ?", email)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByAccountID retrieves a Member by its linked account ID.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE account_id = ?", accountID)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

const memberUpsert = `INSERT INTO member (id, account_id, name, age, plan, contact, email, status, join_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		account_id=excluded.account_id,
		name=excluded.name,
		age=excluded.age,
		plan=excluded.plan,
		contact=excluded.contact,
		email=excluded.email,
		status=excluded.status,
		join_date=excluded.join_date`

// Save persists a Member (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	_, err := s.db.ExecContext(ctx, memberUpsert,
		entity.ID,
		entity.AccountID,
		entity.Name,
		entity.Age,
		entity.Plan,
		entity.Contact,
		entity.Email,
		entity.Status,
		entity.JoinDate.Format(time.RFC3339),
	)
	return err
}

// CreateWithAccount inserts account and member rows in one transaction.
// PRE: both entities have been validated and acct.ID == m.AccountID
// POST: both rows exist, or neither does
func (s *SQLiteStore) CreateWithAccount(ctx context.Context, acct accountdomain.Account, m domain.Member) error {
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
		`INSERT INTO member (id, account_id, name, age, plan, contact, email, status, join_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.AccountID, m.Name, m.Age, m.Plan, m.Contact, m.Email, m.Status,
		m.JoinDate.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	return tx.Commit()
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Plan != "" {
		where += " AND plan = ?"
		args = append(args, filter.Plan)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR email LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name": "name", "email": "email",
		"plan": "plan", "status": "status",
		"age": "age", "join_date": "join_date",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY name ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of members matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member"+where, args...).Scan(&count)
	return count, err
}

// List retrieves members matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities; Count over the same filter agrees with
// the unpaged result size
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + memberColumns + " FROM member" + where
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

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// SaveNote inserts an admin note for a member.
// PRE: note fields are populated
// POST: Note row is inserted
func (s *SQLiteStore) SaveNote(ctx context.Context, note domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO member_note (id, member_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		note.ID, note.MemberID, note.AuthorID, note.Content,
		note.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// ListNotes returns all notes for a member, newest first.
func (s *SQLiteStore) ListNotes(ctx context.Context, memberID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, author_id, content, created_at FROM member_note WHERE member_id = ? ORDER BY created_at DESC",
		memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Note
	for rows.Next() {
		var n domain.Note
		var createdAt string
		if err := rows.Scan(&n.ID, &n.MemberID, &n.AuthorID, &n.Content, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		results = append(results, n)
	}
	return results, rows.Err()
}
