package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxFunc is a unit of work executed inside a database transaction.
// It may run more than once when the transaction is retried.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithTx runs fn inside a serializable transaction and commits it.
	// Serialization failures, deadlocks and voucher number collisions are retried.
	WithTx(ctx context.Context, fn TxFunc) error
}
