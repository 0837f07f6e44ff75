package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// DivisionSvc manages divisions themselves.
type DivisionSvc interface {
	CreateDivision(ctx context.Context, req dto.CreateDivisionRequest) (*domain.Division, error)
	GetDivision(ctx context.Context, divisionID string) (*domain.Division, error)
	GetDivisionByCode(ctx context.Context, code string) (*domain.Division, error)
	ListDivisions(ctx context.Context, activeOnly bool) ([]domain.Division, error)
	UpdateDivision(ctx context.Context, divisionID string, req dto.UpdateDivisionRequest) (*domain.Division, error)
	SetDivisionActive(ctx context.Context, divisionID string, active bool) (*domain.Division, error)
}

// DivisionAccountSvc manages which accounts a division may use.
type DivisionAccountSvc interface {
	MapAccount(ctx context.Context, divisionID string, req dto.MapAccountRequest) (*domain.DivisionAccount, error)
	MapAccounts(ctx context.Context, divisionID string, reqs []dto.MapAccountRequest) ([]domain.DivisionAccount, error)
	UnmapAccount(ctx context.Context, divisionID, accountID string) error
	UpdateAlias(ctx context.Context, divisionID, accountID, alias string) (*domain.DivisionAccount, error)
	SetMappingActive(ctx context.Context, divisionID, accountID string, active bool) (*domain.DivisionAccount, error)
	GetActiveAccounts(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error)
	GetLiquidAccounts(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error)
	IsMapped(ctx context.Context, divisionID, accountID string) (bool, error)
	GetMapping(ctx context.Context, divisionID, accountID string) (*domain.DivisionAccount, error)
	GetAllMappings(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error)
}

// DivisionTransactionSvc creates and lists transactions scoped to a division.
type DivisionTransactionSvc interface {
	CreateForDivision(ctx context.Context, divisionID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	CreateTransfer(ctx context.Context, divisionID string, req dto.CreateTransferRequest) (*domain.Transaction, error)
	GetDivisionTransactions(ctx context.Context, divisionID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
	GetDivisionStats(ctx context.Context, divisionID string) (*domain.DivisionStats, error)
}

// DivisionBalanceSvc computes balances through the calculator with a division filter.
type DivisionBalanceSvc interface {
	GetAccountBalance(ctx context.Context, divisionID, accountID string, filter domain.BalanceFilter) (*domain.BalanceBreakdown, error)
	GetDivisionBalances(ctx context.Context, divisionID string, filter domain.BalanceFilter) ([]domain.DivisionAccountBalance, error)
	GetLiquidBalances(ctx context.Context, divisionID string, filter domain.BalanceFilter) ([]domain.DivisionAccountBalance, error)
	GetTotalAssets(ctx context.Context, divisionID string, filter domain.BalanceFilter) (decimal.Decimal, error)
	GetTotalLiabilities(ctx context.Context, divisionID string, filter domain.BalanceFilter) (decimal.Decimal, error)
	GetNetPosition(ctx context.Context, divisionID string, filter domain.BalanceFilter) (decimal.Decimal, error)
	GetDivisionSummary(ctx context.Context, divisionID string, filter domain.BalanceFilter) (*domain.DivisionSummary, error)
}

// ChartSeederSvc loads the default chart of accounts and divisions.
type ChartSeederSvc interface {
	Seed(ctx context.Context) error
}
