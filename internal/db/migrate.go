package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS intake_sessions (
		session_id  TEXT PRIMARY KEY,
		document    TEXT NOT NULL,
		version     INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS intake_versions (
		session_id  TEXT NOT NULL REFERENCES intake_sessions(session_id) ON DELETE CASCADE,
		version     INTEGER NOT NULL,
		document    TEXT NOT NULL,
		saved_at    TEXT NOT NULL,
		PRIMARY KEY (session_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_intake_versions_session ON intake_versions(session_id)`,

	`ALTER TABLE intake_sessions ADD COLUMN project_id TEXT`,

	`CREATE INDEX IF NOT EXISTS idx_intake_sessions_project ON intake_sessions(project_id)`,
}
