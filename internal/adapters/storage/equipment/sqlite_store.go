package equipment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/equipment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new equipment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const equipmentColumns = "id, name, brand, purchase_date, last_maintenance, next_maintenance, status, location"

func scanEquipment(row interface{ Scan(...any) error }) (domain.Equipment, error) {
	var entity domain.Equipment
	var purchaseDate, lastMaint, nextMaint sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Brand,
		&purchaseDate,
		&lastMaint,
		&nextMaint,
		&entity.Status,
		&entity.Location,
	)
	if err != nil {
		return domain.Equipment{}, err
	}
	if purchaseDate.Valid && purchaseDate.String != "" {
		entity.PurchaseDate, _ = time.Parse(time.RFC3339, purchaseDate.String)
	}
	if lastMaint.Valid && lastMaint.String != "" {
		entity.LastMaintenance, _ = time.Parse(time.RFC3339, lastMaint.String)
	}
	if nextMaint.Valid && nextMaint.String != "" {
		entity.NextMaintenance, _ = time.Parse(time.RFC3339, nextMaint.String)
	}
	return entity, nil
}

// GetByID retrieves an Equipment item by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Equipment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+equipmentColumns+" FROM equipment WHERE id = ?", id)
	entity, err := scanEquipment(row)
	if err == sql.ErrNoRows {
		return domain.Equipment{}, fmt.Errorf("equipment not found: %w", err)
	}
	return entity, err
}

// Save persists an Equipment item (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Equipment) error {
	query := `INSERT INTO equipment (` + equipmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			brand=excluded.brand,
			purchase_date=excluded.purchase_date,
			last_maintenance=excluded.last_maintenance,
			next_maintenance=excluded.next_maintenance,
			status=excluded.status,
			location=excluded.location`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Brand,
		nullableTime(entity.PurchaseDate),
		nullableTime(entity.LastMaintenance),
		nullableTime(entity.NextMaintenance),
		entity.Status,
		entity.Location,
	)
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR brand LIKE ? OR location LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	if !filter.DueBefore.IsZero() {
		where += " AND status != 'retired' AND next_maintenance IS NOT NULL AND next_maintenance < ?"
		args = append(args, filter.DueBefore.Format(time.RFC3339))
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name":             "name",
		"brand":            "brand",
		"status":           "status",
		"next_maintenance": "next_maintenance",
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

// Count returns the total number of equipment items matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM equipment"+where, args...).Scan(&count)
	return count, err
}

// List retrieves equipment items matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Equipment, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + equipmentColumns + " FROM equipment" + where
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

	var results []domain.Equipment
	for rows.Next() {
		entity, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// nullableTime formats a time as RFC 3339 or returns nil for the zero value.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
