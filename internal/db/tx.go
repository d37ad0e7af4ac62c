package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Executor is what store queries run against: the pool or an open
// transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
)

// TxRunner scopes fn to a single transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, ex Executor) error) error
}

// Transactor runs functions inside database/sql transactions.
type Transactor struct {
	db *sql.DB
}

func NewTransactor(database *sql.DB) *Transactor {
	return &Transactor{db: database}
}

// InTx commits when fn returns nil. An error or panic from fn rolls the
// transaction back; a panic is re-raised afterwards.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context, ex Executor) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
