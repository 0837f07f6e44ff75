package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for transactions outside of a unit of work.
type TransactionReader interface {
	// FindTransactionByID loads a transaction with its entries and logs (most recent first).
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of transactions, newest date first, with entries attached.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// CountTransactionsByStatus counts transactions matching filter grouped by status.
	CountTransactionsByStatus(ctx context.Context, filter domain.TransactionFilter) (map[domain.TransactionStatus]int, error)

	// FindLogsByTransactionID returns the audit trail, most recent first.
	FindLogsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLog, error)
}

// TransactionWriter defines writes that must run inside a unit of work.
type TransactionWriter interface {
	// SaveTransaction inserts the transaction header and all of its entries.
	SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionHeader rewrites date, description, total, division and attachment.
	UpdateTransactionHeader(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// ReplaceEntries deletes every entry of the transaction and inserts entries.
	ReplaceEntries(ctx context.Context, tx pgx.Tx, transactionID string, entries []domain.JournalEntry) error

	// AppendLog inserts an audit record.
	AppendLog(ctx context.Context, tx pgx.Tx, log domain.TransactionLog) error
}

// TransactionWorkflowSupport defines the locking primitives used by status transitions.
type TransactionWorkflowSupport interface {
	// FindTransactionForUpdate locks the transaction row and loads its entries.
	FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// CompareAndSetStatus moves the transaction from `from` to `to`, setting voucherNo when non-nil.
	// Returns ErrConflict when the row is no longer in status `from`.
	CompareAndSetStatus(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionStatus, voucherNo *string, now time.Time) error
}

// VoucherSequenceSupport defines the reads backing voucher number allocation.
type VoucherSequenceSupport interface {
	// LockVoucherSequence serializes allocation for key until tx ends.
	LockVoucherSequence(ctx context.Context, tx pgx.Tx, key string) error

	// FindLastVoucherNo returns the lexicographically greatest voucher number starting with
	// prefix, or "" when none exists.
	FindLastVoucherNo(ctx context.Context, tx pgx.Tx, prefix string) (string, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionWorkflowSupport
	VoucherSequenceSupport
}
