package repositories

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// LedgerReader reads approved journal entries for balance computation.
// Only entries whose transaction is APPROVED are ever returned or summed.
type LedgerReader interface {
	// SumApprovedEntries totals debits and credits per account. An empty accountIDs
	// slice sums every account that has matching entries.
	SumApprovedEntries(ctx context.Context, accountIDs []string, filter domain.BalanceFilter) (map[string]domain.EntryTotals, error)

	// FindApprovedEntries lists approved entries of an account, newest transaction first.
	FindApprovedEntries(ctx context.Context, accountID string, filter domain.BalanceFilter) ([]domain.LedgerEntry, error)
}
