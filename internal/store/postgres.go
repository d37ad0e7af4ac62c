package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/alexanderramin/intake/internal/domain"
)

const postgresDriver = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// PostgresStore keeps one JSONB document per session.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore connects, pings and ensures the sessions table exists.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn required")
	}
	openMu.Lock()
	database, err := sqlOpen(postgresDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSessionTable(ctx, database); err != nil {
		database.Close()
		return nil, err
	}
	return &PostgresStore{db: database}, nil
}

func ensureSessionTable(ctx context.Context, database *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS intake_sessions (
		session_id TEXT PRIMARY KEY,
		project_id TEXT,
		document   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := database.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure session table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM intake_sessions WHERE session_id = $1`, sessionID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return Decode(payload)
}

func (s *PostgresStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO intake_sessions (session_id, project_id, document, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (session_id) DO UPDATE SET
			project_id = EXCLUDED.project_id,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at`,
		sessionID, nullable(state.Project().Str(domain.FieldID)), data,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM intake_sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DB exposes the underlying pool for integration tests.
func (s *PostgresStore) DB() *sql.DB { return s.db }

func (s *PostgresStore) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the open function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}
