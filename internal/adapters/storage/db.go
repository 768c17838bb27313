package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// LatestSchemaVersion is the schema version this build expects.
const latestSchemaVersion = 2

// LatestSchemaVersion reports the schema version this build migrates to.
func LatestSchemaVersion() int {
	return latestSchemaVersion
}

// migration is a single schema step. Migrations run in order inside one
// transaction each; schema_version records the last applied step.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{1, `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		last_login TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS remember_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		plan TEXT NOT NULL,
		contact TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		status TEXT NOT NULL,
		join_date TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS trainer (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		specialty TEXT NOT NULL,
		certification TEXT NOT NULL DEFAULT '',
		years_experience INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0,
		bio TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS class (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		trainer_id TEXT NOT NULL,
		schedule TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		max_capacity INTEGER NOT NULL,
		current_enrollment INTEGER NOT NULL DEFAULT 0,
		location TEXT NOT NULL DEFAULT '',
		class_type TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		FOREIGN KEY (trainer_id) REFERENCES trainer(id)
	);

	CREATE TABLE IF NOT EXISTS booking (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		class_id TEXT NOT NULL,
		status TEXT NOT NULL,
		booked_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id),
		FOREIGN KEY (class_id) REFERENCES class(id)
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		reference TEXT NOT NULL UNIQUE,
		method TEXT NOT NULL,
		amount INTEGER NOT NULL,
		plan TEXT NOT NULL DEFAULT '',
		receipt_path TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		paid_at TEXT,
		reviewed_by TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS equipment (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		purchase_date TEXT,
		last_maintenance TEXT,
		next_maintenance TEXT,
		status TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT ''
	);
	`},
	{2, `
	CREATE TABLE IF NOT EXISTS member_note (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_live
		ON booking(member_id, class_id) WHERE status != 'cancelled';
	CREATE INDEX IF NOT EXISTS idx_booking_class ON booking(class_id);
	CREATE INDEX IF NOT EXISTS idx_payment_status ON payment(status);
	CREATE INDEX IF NOT EXISTS idx_class_schedule ON class(schedule);
	`},
}

// SchemaVersion reports the last applied migration, 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// MigrateDB brings the schema up to the latest version.
// PRE: db is a valid database connection
// POST: schema_version equals LatestSchemaVersion()
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current := 0
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed to record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("schema_migrated", "version", m.version)
	}
	return nil
}
