package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so reads can run inside or
// outside a unit of work.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// dbPool is the part of *pgxpool.Pool the repositories use.
type dbPool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Postgres SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgInvalidTextRepr      = "22P02"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// voucherNoConstraint is the unique constraint on transactions.voucher_no. A violation
// means two approvals raced for the same sequence number.
const voucherNoConstraint = "transactions_voucher_no_key"


const (
	maxTxAttempts = 5
	retryBaseWait = 20 * time.Millisecond
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool dbPool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// PgxTransactionManager runs units of work in serializable transactions.
type PgxTransactionManager struct {
	BaseRepository
}

func newPgxTransactionManager(pool dbPool) *PgxTransactionManager {
	return &PgxTransactionManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithTx runs fn in a serializable transaction, retrying serialization failures,
// deadlocks and voucher number collisions. Exhausted retries surface as ErrConflict.
func (m *PgxTransactionManager) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		lastErr = m.runOnce(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		slog.WarnContext(ctx, "Retrying database transaction", "attempt", attempt, "error", lastErr)
		if attempt == maxTxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay(attempt)):
		}
	}
	return fmt.Errorf("%w: transaction retries exhausted: %w", apperrors.ErrConflict, lastErr)
}

func (m *PgxTransactionManager) runOnce(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := m.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer m.Rollback(ctx, tx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}

// retryDelay grows quadratically with the attempt number and adds up to one base unit of jitter.
func retryDelay(attempt int) time.Duration {
	wait := time.Duration(attempt*attempt) * retryBaseWait
	return wait + rand.N(retryBaseWait)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	case pgUniqueViolation:
		return pgErr.ConstraintName == voucherNoConstraint
	}
	return false
}

// translateError maps driver errors onto the application sentinels. op is the verb used
// for unexpected failures ("save", "load") and subject names the row ("account 101").
// The driver error stays in the chain so WithTx can still classify it.
func translateError(err error, op, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, subject)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %w", apperrors.ErrDuplicate, subject, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s is still referenced: %w", apperrors.ErrPolicy, subject, err)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s violates a constraint: %w", apperrors.ErrValidation, subject, err)
		case pgInvalidTextRepr:
			return fmt.Errorf("%w: malformed identifier for %s: %w", apperrors.ErrValidation, subject, err)
		}
	}
	return fmt.Errorf("failed to %s %s: %w", op, subject, err)
}
