package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceCalculatorSvc derives balances from approved journal entries on every call.
type BalanceCalculatorSvc interface {
	GetBalance(ctx context.Context, accountID string, filter domain.BalanceFilter) (decimal.Decimal, error)
	GetBalanceBreakdown(ctx context.Context, accountID string, filter domain.BalanceFilter) (*domain.BalanceBreakdown, error)

	// GetAccountBalances computes each account independently. Empty accountIDs means every account.
	GetAccountBalances(ctx context.Context, accountIDs []string, filter domain.BalanceFilter) (map[string]decimal.Decimal, error)

	// GetBalanceSummaryByCategory groups every account under its category, in statement order.
	GetBalanceSummaryByCategory(ctx context.Context, filter domain.BalanceFilter) ([]domain.CategorySummary, error)

	// GetAccountEntries lists the approved entries behind an account's balance.
	GetAccountEntries(ctx context.Context, accountID string, filter domain.BalanceFilter) ([]domain.LedgerEntry, error)

	GetTotalAssets(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error)
	GetTotalLiabilities(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error)
	GetEquity(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error)
}
