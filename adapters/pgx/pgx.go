package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/khuluma"
	"github.com/lborres/khuluma/core"
)

const uniqueViolation = "23505"

type Adapter struct {
	db *Manager
}

var _ khuluma.StorageAdapter = (*Adapter)(nil)

func New(db *Manager) *Adapter {
	return &Adapter{
		db: db,
	}
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.Ping(ctx)
}

// withConn runs fn on a checked-out connection under the query deadline and
// releases the connection afterwards.
func (a *Adapter) withConn(ctx context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	conn, err := a.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()

	return fn(ctx, conn)
}

// withTx is withConn inside a transaction. fn's error rolls back.
func (a *Adapter) withTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tx, err := conn.BeginTx(ctx, opts)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := fn(ctx, tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}

// storageError classifies a driver error for op. Domain sentinels pass
// through untouched.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return core.NewConnectionError(op, err)
	}
	return core.NewQueryError(op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		core.ErrSessionNotFound,
		core.ErrClientNotFound,
		core.ErrOpportunityNotFound,
		core.ErrDocumentNotFound,
		core.ErrAlreadyApplied,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
