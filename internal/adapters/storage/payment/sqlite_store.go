package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/payment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const paymentColumns = "id, member_id, reference, method, amount, plan, receipt_path, status, paid_at, reviewed_by, created_at"

func scanPayment(row interface{ Scan(...any) error }) (domain.Payment, error) {
	var entity domain.Payment
	var paidAt, reviewedBy sql.NullString
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.Reference,
		&entity.Method,
		&entity.Amount,
		&entity.Plan,
		&entity.ReceiptPath,
		&entity.Status,
		&paidAt,
		&reviewedBy,
		&createdAt,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	if paidAt.Valid && paidAt.String != "" {
		entity.PaidAt, _ = time.Parse(time.RFC3339, paidAt.String)
	}
	if reviewedBy.Valid {
		entity.ReviewedBy = reviewedBy.String
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return entity, nil
}

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE id = ?", id)
	entity, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	return entity, err
}

// GetByReference retrieves a Payment by its reference number.
// PRE: reference is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByReference(ctx context.Context, reference string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE reference = ?", reference)
	entity, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	return entity, err
}

// Save persists a Payment (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; duplicate reference yields ErrDuplicateReference
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	query := `INSERT INTO payment (` + paymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id,
			reference=excluded.reference,
			method=excluded.method,
			amount=excluded.amount,
			plan=excluded.plan,
			receipt_path=excluded.receipt_path,
			status=excluded.status,
			paid_at=excluded.paid_at,
			reviewed_by=excluded.reviewed_by`

	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var paidAt any
	if !entity.PaidAt.IsZero() {
		paidAt = entity.PaidAt.Format(time.RFC3339)
	}
	var reviewedBy any
	if entity.ReviewedBy != "" {
		reviewedBy = entity.ReviewedBy
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.Reference,
		entity.Method,
		entity.Amount,
		entity.Plan,
		entity.ReceiptPath,
		entity.Status,
		paidAt,
		reviewedBy,
		createdAt.Format(time.RFC3339),
	)
	if err != nil && strings.Contains(err.Error(), "payment.reference") {
		return domain.ErrDuplicateReference
	}
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.MemberID != "" {
		where += " AND member_id = ?"
		args = append(args, filter.MemberID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Method != "" {
		where += " AND method = ?"
		args = append(args, filter.Method)
	}
	if filter.Search != "" {
		where += " AND reference LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"created_at": "created_at",
		"amount":     "amount",
		"status":     "status",
		"method":     "method",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY created_at DESC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of payments matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM payment"+where, args...).Scan(&count)
	return count, err
}

// List retrieves payments matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Payment, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + paymentColumns + " FROM payment" + where
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

	var results []domain.Payment
	for rows.Next() {
		entity, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// CompletedTotal sums the amount of all completed payments in cents.
func (s *SQLiteStore) CompletedTotal(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payment WHERE status = ?",
		domain.StatusCompleted,
	).Scan(&total)
	return total, err
}
