package report

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/report"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new report store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Build produces the detail rows and summary for the requested report.
// PRE: params have been validated
// POST: Returned table passes Check(); summary is computed over the same
// rows as the detail section
func (s *SQLiteStore) Build(ctx context.Context, params domain.Params) (domain.Table, error) {
	switch params.Type {
	case domain.TypeMembership:
		return s.membershipReport(ctx, params)
	case domain.TypeRevenue:
		return s.revenueReport(ctx, params)
	case domain.TypeAttendance:
		return s.attendanceReport(ctx, params)
	case domain.TypeEquipment:
		return s.equipmentReport(ctx, params)
	default:
		return domain.Table{}, domain.ErrInvalidType
	}
}

// rangeClause appends an inclusive date-range condition on column.
// The To bound is extended to the end of its day so a same-day range
// still matches rows stamped during that day.
func rangeClause(column string, params domain.Params) (string, []any) {
	var where string
	var args []any
	if !params.From.IsZero() {
		where += " AND " + column + " >= ?"
		args = append(args, params.From.Format(time.RFC3339))
	}
	if !params.To.IsZero() {
		where += " AND " + column + " < ?"
		args = append(args, params.To.Add(24*time.Hour).Truncate(24*time.Hour).Format(time.RFC3339))
	}
	return where, args
}

func (s *SQLiteStore) membershipReport(ctx context.Context, params domain.Params) (domain.Table, error) {
	where, args := rangeClause("join_date", params)
	query := "SELECT name, email, plan, status, join_date FROM member WHERE 1=1" + where + " ORDER BY join_date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Table{}, err
	}
	defer rows.Close()

	table := domain.Table{Headers: []string{"Name", "Email", "Plan", "Status", "Join Date"}}
	active := 0
	for rows.Next() {
		var name, email, plan, status, joinDate string
		if err := rows.Scan(&name, &email, &plan, &status, &joinDate); err != nil {
			return domain.Table{}, err
		}
		if status == "active" {
			active++
		}
		table.Rows = append(table.Rows, []string{name, email, plan, status, formatDay(joinDate)})
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, err
	}

	table.Summary = domain.Summary{Label: "members", Count: len(table.Rows)}
	if len(table.Rows) > 0 {
		table.Summary.Average = float64(active) / float64(len(table.Rows))
	}
	return table, nil
}

func (s *SQLiteStore) revenueReport(ctx context.Context, params domain.Params) (domain.Table, error) {
	where, args := rangeClause("p.paid_at", params)
	query := `SELECT p.reference, m.name, p.method, p.amount, p.paid_at
		FROM payment p JOIN member m ON m.id = p.member_id
		WHERE p.status = 'completed'` + where + " ORDER BY p.paid_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Table{}, err
	}
	defer rows.Close()

	table := domain.Table{Headers: []string{"Reference", "Member", "Method", "Amount", "Paid At"}}
	total := 0
	for rows.Next() {
		var reference, memberName, method, paidAt string
		var amount int
		if err := rows.Scan(&reference, &memberName, &method, &amount, &paidAt); err != nil {
			return domain.Table{}, err
		}
		total += amount
		table.Rows = append(table.Rows, []string{reference, memberName, method, formatCents(amount), formatDay(paidAt)})
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, err
	}

	table.Summary = domain.Summary{Label: "completed payments", Count: len(table.Rows), Total: total}
	if len(table.Rows) > 0 {
		table.Summary.Average = float64(total) / float64(len(table.Rows))
	}
	return table, nil
}

func (s *SQLiteStore) attendanceReport(ctx context.Context, params domain.Params) (domain.Table, error) {
	where, args := rangeClause("b.booked_at", params)
	query := `SELECT m.name, c.name, b.status, b.booked_at
		FROM booking b
		JOIN member m ON m.id = b.member_id
		JOIN class c ON c.id = b.class_id
		WHERE 1=1` + where + " ORDER BY b.booked_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Table{}, err
	}
	defer rows.Close()

	table := domain.Table{Headers: []string{"Member", "Class", "Status", "Booked At"}}
	confirmed := 0
	for rows.Next() {
		var memberName, className, status, bookedAt string
		if err := rows.Scan(&memberName, &className, &status, &bookedAt); err != nil {
			return domain.Table{}, err
		}
		if status == "confirmed" {
			confirmed++
		}
		table.Rows = append(table.Rows, []string{memberName, className, status, formatDay(bookedAt)})
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, err
	}

	table.Summary = domain.Summary{Label: "bookings", Count: len(table.Rows)}
	if len(table.Rows) > 0 {
		table.Summary.Average = float64(confirmed) / float64(len(table.Rows))
	}
	return table, nil
}

func (s *SQLiteStore) equipmentReport(ctx context.Context, params domain.Params) (domain.Table, error) {
	where, args := rangeClause("purchase_date", params)
	query := "SELECT name, brand, status, location, COALESCE(next_maintenance, '') FROM equipment WHERE 1=1" + where + " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Table{}, err
	}
	defer rows.Close()

	table := domain.Table{Headers: []string{"Name", "Brand", "Status", "Location", "Next Maintenance"}}
	active := 0
	for rows.Next() {
		var name, brand, status, location, nextMaint string
		if err := rows.Scan(&name, &brand, &status, &location, &nextMaint); err != nil {
			return domain.Table{}, err
		}
		if status == "active" {
			active++
		}
		table.Rows = append(table.Rows, []string{name, brand, status, location, formatDay(nextMaint)})
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, err
	}

	table.Summary = domain.Summary{Label: "equipment items", Count: len(table.Rows)}
	if len(table.Rows) > 0 {
		table.Summary.Average = float64(active) / float64(len(table.Rows))
	}
	return table, nil
}

// formatDay renders an RFC 3339 timestamp as a calendar date, passing
// through values that do not parse.
func formatDay(stamp string) string {
	if stamp == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}
	return t.Format("2006-01-02")
}

// formatCents renders an amount in cents as a decimal string.
func formatCents(cents int) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
