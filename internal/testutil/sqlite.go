package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/intake/internal/db"
)

// MemoryDB opens a migrated in-memory database that is closed when the
// test ends.
func MemoryDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.Open(db.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// ExecFault runs real transactions but makes the Nth ExecContext call
// inside each one return Err. Calls count from 1; reads are not counted.
type ExecFault struct {
	DB  *sql.DB
	N   int32
	Err error
}

func (f *ExecFault) InTx(ctx context.Context, fn func(ctx context.Context, ex db.Executor) error) error {
	return db.NewTransactor(f.DB).InTx(ctx, func(ctx context.Context, ex db.Executor) error {
		return fn(ctx, &faultyExecutor{Executor: ex, n: f.N, err: f.Err})
	})
}

type faultyExecutor struct {
	db.Executor
	calls atomic.Int32
	n     int32
	err   error
}

func (e *faultyExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if e.calls.Add(1) == e.n {
		return nil, e.err
	}
	return e.Executor.ExecContext(ctx, query, args...)
}
