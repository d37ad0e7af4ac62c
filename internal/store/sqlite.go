package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/intake/internal/db"
	"github.com/alexanderramin/intake/internal/domain"
)

// Version is one saved revision of a session document.
type Version struct {
	Number   int           `json:"version"`
	SavedAt  time.Time     `json:"saved_at"`
	Document *domain.State `json:"document"`
}

var (
	_ Versioned    = (*SQLiteStore)(nil)
	_ ProjectIndex = (*SQLiteStore)(nil)
)

// SQLiteStore keeps the current document in intake_sessions and appends
// every save to intake_versions.
type SQLiteStore struct {
	db  *sql.DB
	tx  db.TxRunner
	now func() time.Time
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(database, db.NewTransactor(database)), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(database *sql.DB, tx db.TxRunner) *SQLiteStore {
	return &SQLiteStore{db: database, tx: tx, now: time.Now}
}

func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM intake_sessions WHERE session_id = ?`, sessionID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	return Decode([]byte(doc))
}

// Save upserts the current document and records a new version in the
// same transaction.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	now := s.now().UTC().Format(time.RFC3339Nano)
	projectID := nullable(state.Project().Str(domain.FieldID))

	return s.tx.InTx(ctx, func(ctx context.Context, ex db.Executor) error {
		var version int
		err := ex.QueryRowContext(ctx,
			`SELECT version FROM intake_sessions WHERE session_id = ?`, sessionID,
		).Scan(&version)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reading version: %w", err)
		}
		version++

		_, err = ex.ExecContext(ctx,
			`INSERT INTO intake_sessions (session_id, document, version, project_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id) DO UPDATE SET
				document = excluded.document,
				version = excluded.version,
				project_id = excluded.project_id,
				updated_at = excluded.updated_at`,
			sessionID, string(data), version, projectID, now, now,
		)
		if err != nil {
			return fmt.Errorf("saving session %s: %w", sessionID, err)
		}

		_, err = ex.ExecContext(ctx,
			`INSERT INTO intake_versions (session_id, version, document, saved_at) VALUES (?, ?, ?, ?)`,
			sessionID, version, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("recording version %d: %w", version, err)
		}
		return nil
	})
}

// Delete removes the session and, by cascade, its versions.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM intake_sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	return nil
}

// History returns every saved version of a session, oldest first.
func (s *SQLiteStore) History(ctx context.Context, sessionID string) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, document, saved_at FROM intake_versions WHERE session_id = ? ORDER BY version`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var (
			v       Version
			doc     string
			savedAt string
		)
		if err := rows.Scan(&v.Number, &doc, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		if v.Document, err = Decode([]byte(doc)); err != nil {
			return nil, err
		}
		v.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		out = append(out, v)
	}
	return out, rows.Err()
}

// FindByProjectID returns the session holding the given project id.
func (s *SQLiteStore) FindByProjectID(ctx context.Context, projectID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id FROM intake_sessions WHERE project_id = ? ORDER BY updated_at DESC LIMIT 1`,
		projectID,
	).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("finding project %s: %w", projectID, err)
	}
	return sessionID, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
