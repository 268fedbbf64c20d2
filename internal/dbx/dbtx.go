// Package dbx provides the small database abstractions shared by the
// repositories: DBTX (implemented by *sql.DB and *sql.Tx), a transaction
// helper, and Transactor so services can run units of work without knowing
// whether the backing store is SQL or in-memory.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor runs fn as one unit of work. SQL implementations pass a *sql.Tx;
// in-memory implementations pass nil and rely on their own locking.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLTransactor adapts *sql.DB to Transactor.
type SQLTransactor struct {
	DB *sql.DB
}

func (t SQLTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, t.DB, nil, fn)
}

// WithTx begins a transaction, runs fn with it and commits on success.
// It rolls back when fn returns an error or panics; panics are rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
