package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/booking"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new booking store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const bookingColumns = "id, member_id, class_id, status, booked_at"

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var entity domain.Booking
	var bookedAt string
	err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.ClassID,
		&entity.Status,
		&bookedAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	entity.BookedAt, _ = time.Parse(time.RFC3339, bookedAt)
	return entity, nil
}

// GetByID retrieves a Booking by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM booking WHERE id = ?", id)
	entity, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return domain.Booking{}, fmt.Errorf("booking not found: %w", err)
	}
	return entity, err
}

// GetLive retrieves a member's non-cancelled booking for a class.
// At most one such row can exist per (member, class).
// PRE: memberID and classID are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetLive(ctx context.Context, memberID, classID string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM booking WHERE member_id = ? AND class_id = ? AND status != ?",
		memberID, classID, domain.StatusCancelled,
	)
	entity, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return domain.Booking{}, fmt.Errorf("booking not found: %w", err)
	}
	return entity, err
}

// Save persists a Booking (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Booking) error {
	query := `INSERT INTO booking (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id,
			class_id=excluded.class_id,
			status=excluded.status,
			booked_at=excluded.booked_at`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.ClassID,
		entity.Status,
		entity.BookedAt.Format(time.RFC3339),
	)
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
	if filter.ClassID != "" {
		where += " AND class_id = ?"
		args = append(args, filter.ClassID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"booked_at": "booked_at",
		"status":    "status",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY booked_at DESC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of bookings matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM booking"+where, args...).Scan(&count)
	return count, err
}

// List retrieves bookings matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + bookingColumns + " FROM booking" + where
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

	var results []domain.Booking
	for rows.Next() {
		entity, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
