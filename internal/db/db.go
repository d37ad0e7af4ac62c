// Package db opens and migrates the SQLite database behind the sqlite
// session store.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Memory is the path that selects a private in-memory database.
const Memory = ":memory:"

// filePragmas are applied by the driver to every pooled connection.
var filePragmas = []string{"journal_mode(WAL)", "foreign_keys(1)", "busy_timeout(5000)"}

// Open opens the database at path, creating its directory if needed, and
// brings the schema up to date. Memory databases are pinned to a single
// connection so every query sees the same schema.
func Open(path string) (*sql.DB, error) {
	if path == Memory {
		return openMemory()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	q := url.Values{}
	for _, p := range filePragmas {
		q.Add("_pragma", p)
	}
	database, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return migrated(database)
}

func openMemory() (*sql.DB, error) {
	database, err := sql.Open("sqlite", Memory)
	if err != nil {
		return nil, fmt.Errorf("opening memory database: %w", err)
	}
	database.SetMaxOpenConns(1)
	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return migrated(database)
}

func migrated(database *sql.DB) (*sql.DB, error) {
	if err := Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database, nil
}
