package gymclass

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	bookingdomain "gymdesk/internal/domain/booking"
	domain "gymdesk/internal/domain/gymclass"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new class store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const classColumns = "id, name, trainer_id, schedule, duration_minutes, max_capacity, current_enrollment, location, class_type, difficulty, description, status"

func scanClass(row interface{ Scan(...any) error }) (domain.Class, error) {
	var entity domain.Class
	var schedule string
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.TrainerID,
		&schedule,
		&entity.DurationMinutes,
		&entity.MaxCapacity,
		&entity.CurrentEnrollment,
		&entity.Location,
		&entity.ClassType,
		&entity.Difficulty,
		&entity.Description,
		&entity.Status,
	)
	if err != nil {
		return domain.Class{}, err
	}
	entity.Schedule, _ = time.Parse(time.RFC3339, schedule)
	return entity, nil
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+classColumns+" FROM class WHERE id = ?", id)
	entity, err := scanClass(row)
	if err == sql.ErrNoRows {
		return domain.Class{}, fmt.Errorf("class not found: %w", err)
	}
	return entity, err
}

// Save persists a Class (insert or update). The enrollment counter is
// only written on insert; updates leave it to ReserveSeat/ReleaseSeat.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Class) error {
	query := `INSERT INTO class (` + classColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			trainer_id=excluded.trainer_id,
			schedule=excluded.schedule,
			duration_minutes=excluded.duration_minutes,
			max_capacity=excluded.max_capacity,
			location=excluded.location,
			class_type=excluded.class_type,
			difficulty=excluded.difficulty,
			description=excluded.description,
			status=excluded.status`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.TrainerID,
		entity.Schedule.Format(time.RFC3339),
		entity.DurationMinutes,
		entity.MaxCapacity,
		entity.CurrentEnrollment,
		entity.Location,
		entity.ClassType,
		entity.Difficulty,
		entity.Description,
		entity.Status,
	)
	return err
}

// ReserveSeat books a member into a class.
// The conditional UPDATE is the capacity authority: under concurrent
// bookings only max_capacity increments can succeed.
// PRE: b has been validated
// POST: enrollment incremented and booking inserted, or neither
func (s *SQLiteStore) ReserveSeat(ctx context.Context, b bookingdomain.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE class SET current_enrollment = current_enrollment + 1
		WHERE id = ? AND status = 'active' AND current_enrollment < max_capacity`,
		b.ClassID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrClassFull
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO booking (id, member_id, class_id, status, booked_at) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.MemberID, b.ClassID, b.Status, b.BookedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return tx.Commit()
}

// ReleaseSeat cancels a booking and returns its seat to the class.
// PRE: bookingID is non-empty
// POST: booking cancelled and enrollment decremented (not below zero),
// or nothing changed
func (s *SQLiteStore) ReleaseSeat(ctx context.Context, bookingID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var classID, status string
	err = tx.QueryRowContext(ctx,
		"SELECT class_id, status FROM booking WHERE id = ?", bookingID,
	).Scan(&classID, &status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("booking not found: %w", err)
	}
	if err != nil {
		return err
	}
	if status == bookingdomain.StatusCancelled {
		return bookingdomain.ErrAlreadyCancelled
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE booking SET status = ? WHERE id = ?",
		bookingdomain.StatusCancelled, bookingID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE class SET current_enrollment = current_enrollment - 1 WHERE id = ? AND current_enrollment > 0",
		classID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// CancelWithBookings cancels a class and every live booking on it.
// PRE: classID is non-empty
// POST: class status is cancelled and no live bookings remain for it
func (s *SQLiteStore) CancelWithBookings(ctx context.Context, classID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM class WHERE id = ?", classID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("class not found: %w", err)
	}
	if err != nil {
		return err
	}
	if status == domain.StatusCancelled {
		// Already cancelled: nothing to do.
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE class SET status = ?, current_enrollment = 0 WHERE id = ?",
		domain.StatusCancelled, classID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE booking SET status = ? WHERE class_id = ? AND status != ?",
		bookingdomain.StatusCancelled, classID, bookingdomain.StatusCancelled,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.ClassType != "" {
		where += " AND class_type = ?"
		args = append(args, filter.ClassType)
	}
	if filter.Difficulty != "" {
		where += " AND difficulty = ?"
		args = append(args, filter.Difficulty)
	}
	if filter.TrainerID != "" {
		where += " AND trainer_id = ?"
		args = append(args, filter.TrainerID)
	}
	if !filter.UpcomingAfter.IsZero() {
		where += " AND status = 'active' AND schedule > ?"
		args = append(args, filter.UpcomingAfter.Format(time.RFC3339))
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR location LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name":       "name",
		"schedule":   "schedule",
		"type":       "class_type",
		"difficulty": "difficulty",
		"status":     "status",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY schedule ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of classes matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM class"+where, args...).Scan(&count)
	return count, err
}

// List retrieves classes matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Class, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + classColumns + " FROM class" + where
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

	var results []domain.Class
	for rows.Next() {
		entity, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
