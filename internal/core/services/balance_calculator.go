package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var allowedBalanceFilterKeys = map[string]struct{}{
	domain.FilterDivisionID:    {},
	domain.FilterVoucherNo:     {},
	domain.FilterTransactionID: {},
}

type balanceCalculator struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewBalanceCalculator creates the service that derives balances from approved entries.
func NewBalanceCalculator(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.BalanceCalculatorSvc {
	return &balanceCalculator{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.BalanceCalculatorSvc = (*balanceCalculator)(nil)

// validateBalanceFilter rejects unknown equality keys and inverted date ranges.
func validateBalanceFilter(filter domain.BalanceFilter) error {
	for key := range filter.Equals {
		if _, ok := allowedBalanceFilterKeys[key]; !ok {
			return apperrors.Validationf("unsupported balance filter '%s'", key)
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return apperrors.Validationf("dateFrom must not be after dateTo")
	}
	return nil
}

func (s *balanceCalculator) GetBalance(ctx context.Context, accountID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	breakdown, err := s.GetBalanceBreakdown(ctx, accountID, filter)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.Balance, nil
}

func (s *balanceCalculator) GetBalanceBreakdown(ctx context.Context, accountID string, filter domain.BalanceFilter) (*domain.BalanceBreakdown, error) {
	if err := validateBalanceFilter(filter); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := s.ledgerRepo.SumApprovedEntries(ctx, []string{accountID}, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum approved entries", slog.String("account_id", accountID))
		return nil, err
	}
	return breakdownFor(*account, totals[accountID])
}

func (s *balanceCalculator) GetAccountBalances(ctx context.Context, accountIDs []string, filter domain.BalanceFilter) (map[string]decimal.Decimal, error) {
	if err := validateBalanceFilter(filter); err != nil {
		return nil, err
	}
	accounts, err := s.loadAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	lines, err := s.balancesOf(ctx, accounts, filter)
	if err != nil {
		return nil, err
	}

	result := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		result[line.Account.AccountID] = line.Balance
	}
	return result, nil
}

func (s *balanceCalculator) GetBalanceSummaryByCategory(ctx context.Context, filter domain.BalanceFilter) ([]domain.CategorySummary, error) {
	if err := validateBalanceFilter(filter); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, err
	}
	lines, err := s.balancesOf(ctx, accounts, filter)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[domain.AccountCategory][]domain.AccountBalance)
	for _, line := range lines {
		byCategory[line.Account.Category] = append(byCategory[line.Account.Category], line)
	}

	categories := domain.AccountCategories()
	summaries := make([]domain.CategorySummary, 0, len(categories))
	for _, c := range categories {
		summary := domain.CategorySummary{Category: c, TotalBalance: decimal.Zero, Accounts: byCategory[c]}
		if summary.Accounts == nil {
			summary.Accounts = []domain.AccountBalance{}
		}
		for _, line := range summary.Accounts {
			summary.TotalBalance = summary.TotalBalance.Add(line.Balance)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *balanceCalculator) GetAccountEntries(ctx context.Context, accountID string, filter domain.BalanceFilter) ([]domain.LedgerEntry, error) {
	if err := validateBalanceFilter(filter); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindApprovedEntries(ctx, accountID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list approved entries", slog.String("account_id", accountID))
		return nil, err
	}
	for i := range entries {
		effect, err := accounting.CalculateSignedAmount(entries[i].JournalEntry, account.Category)
		if err != nil {
			return nil, err
		}
		entries[i].Effect = effect
	}
	return entries, nil
}

func (s *balanceCalculator) GetTotalAssets(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error) {
	return s.categoryTotal(ctx, domain.Assets, filter)
}

func (s *balanceCalculator) GetTotalLiabilities(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error) {
	return s.categoryTotal(ctx, domain.Liabilities, filter)
}

func (s *balanceCalculator) GetEquity(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error) {
	return s.categoryTotal(ctx, domain.Equity, filter)
}

func (s *balanceCalculator) categoryTotal(ctx context.Context, category domain.AccountCategory, filter domain.BalanceFilter) (decimal.Decimal, error) {
	if err := validateBalanceFilter(filter); err != nil {
		return decimal.Zero, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{Category: &category})
	if err != nil {
		return decimal.Zero, err
	}
	lines, err := s.balancesOf(ctx, accounts, filter)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Balance)
	}
	return total, nil
}

// loadAccounts resolves ids to accounts ordered by code. Empty ids selects every account.
func (s *balanceCalculator) loadAccounts(ctx context.Context, accountIDs []string) ([]domain.Account, error) {
	if len(accountIDs) == 0 {
		return s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	}
	found, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(found))
	for _, id := range accountIDs {
		account, ok := found[id]
		if !ok {
			return nil, apperrors.NotFoundf("Account %s not found", id)
		}
		accounts = append(accounts, account)
	}
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

// balancesOf sums entries for accounts in a single query and applies each account's convention.
func (s *balanceCalculator) balancesOf(ctx context.Context, accounts []domain.Account, filter domain.BalanceFilter) ([]domain.AccountBalance, error) {
	if len(accounts) == 0 {
		return []domain.AccountBalance{}, nil
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.AccountID
	}

	totals, err := s.ledgerRepo.SumApprovedEntries(ctx, ids, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum approved entries", slog.Int("accounts", len(ids)))
		return nil, err
	}

	lines := make([]domain.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		b, err := breakdownFor(a, totals[a.AccountID])
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.AccountBalance{Account: a, Balance: b.Balance})
	}
	return lines, nil
}

func breakdownFor(account domain.Account, totals domain.EntryTotals) (*domain.BalanceBreakdown, error) {
	balance, err := accounting.CalculateBalance(account.Category, totals.Debits, totals.Credits)
	if err != nil {
		return nil, err
	}
	return &domain.BalanceBreakdown{
		AccountID: account.AccountID,
		Debits:    totals.Debits,
		Credits:   totals.Credits,
		Balance:   balance,
	}, nil
}
