package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// VoucherGeneratorSvc issues voucher numbers of the form PREFIX-YYYY-NNNNN.
type VoucherGeneratorSvc interface {
	// Generate allocates the next number for the transaction's year. It must run inside
	// the same database transaction that approves txn.
	Generate(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (string, error)

	IsValidFormat(voucherNo string) bool

	// Parse decodes a voucher number. The boolean is false for malformed input.
	Parse(voucherNo string) (domain.VoucherParts, bool)

	Prefix() string
}
