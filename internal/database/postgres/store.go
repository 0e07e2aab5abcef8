// Package postgres is the PostgreSQL storage engine.
//
// Character and instrument reads inside a transaction take row locks
// (SELECT ... FOR UPDATE) so concurrent writers queue on the row instead of
// failing their version check.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store implements repository.Store on a pgx pool
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// BeginTx starts a read-committed transaction
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	t, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, classify(err))
	}
	return &tx{tx: t}, nil
}

// Ping checks the pool can reach the database
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return repository.ErrTxClosed
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, classify(err))
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return repository.ErrTxClosed
		}
		return err
	}
	return nil
}

// classify marks errors a retry can fix as domain.ErrTransient
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrorCodeSerializationFailure, PgErrorCodeDeadlockDetected:
			return fmt.Errorf("%w: %w", domain.ErrTransient, err)
		}
		return err
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}

// wrap prefixes a failed statement with msg, keeping transient causes visible
func wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, classify(err))
}
