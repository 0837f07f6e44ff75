package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type divisionBalanceService struct {
	BaseService
	divisionRepo portsrepo.DivisionRepositoryFacade
	calculator   portssvc.BalanceCalculatorSvc
	divisionTxns portssvc.DivisionTransactionSvc
}

func NewDivisionBalanceService(
	divisionRepo portsrepo.DivisionRepositoryFacade,
	calculator portssvc.BalanceCalculatorSvc,
	divisionTxns portssvc.DivisionTransactionSvc,
) portssvc.DivisionBalanceSvc {
	return &divisionBalanceService{divisionRepo: divisionRepo, calculator: calculator, divisionTxns: divisionTxns}
}

var _ portssvc.DivisionBalanceSvc = (*divisionBalanceService)(nil)

func (s *divisionBalanceService) GetAccountBalance(ctx context.Context, divisionID, accountID string, filter domain.BalanceFilter) (*domain.BalanceBreakdown, error) {
	if _, err := s.divisionRepo.FindMapping(ctx, divisionID, accountID); err != nil {
		return nil, err
	}
	return s.calculator.GetBalanceBreakdown(ctx, accountID, scoped(divisionID, filter))
}

// GetDivisionBalances returns a breakdown for every active mapping.
func (s *divisionBalanceService) GetDivisionBalances(ctx context.Context, divisionID string, filter domain.BalanceFilter) ([]domain.DivisionAccountBalance, error) {
	mappings, err := s.mappings(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	return s.balancesFor(ctx, divisionID, mappings, filter)
}

func (s *divisionBalanceService) GetLiquidBalances(ctx context.Context, divisionID string, filter domain.BalanceFilter) ([]domain.DivisionAccountBalance, error) {
	mappings, err := s.mappings(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	liquid := mappings[:0]
	for _, m := range mappings {
		if m.IsLiquid() {
			liquid = append(liquid, m)
		}
	}
	return s.balancesFor(ctx, divisionID, liquid, filter)
}

func (s *divisionBalanceService) GetTotalAssets(ctx context.Context, divisionID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	balances, err := s.GetDivisionBalances(ctx, divisionID, filter)
	if err != nil {
		return decimal.Zero, err
	}
	return sumCategory(balances, domain.Assets), nil
}

func (s *divisionBalanceService) GetTotalLiabilities(ctx context.Context, divisionID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	balances, err := s.GetDivisionBalances(ctx, divisionID, filter)
	if err != nil {
		return decimal.Zero, err
	}
	return sumCategory(balances, domain.Liabilities), nil
}

// GetNetPosition is total assets minus total liabilities over the division's mapped accounts.
func (s *divisionBalanceService) GetNetPosition(ctx context.Context, divisionID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	balances, err := s.GetDivisionBalances(ctx, divisionID, filter)
	if err != nil {
		return decimal.Zero, err
	}
	return sumCategory(balances, domain.Assets).Sub(sumCategory(balances, domain.Liabilities)), nil
}

func (s *divisionBalanceService) GetDivisionSummary(ctx context.Context, divisionID string, filter domain.BalanceFilter) (*domain.DivisionSummary, error) {
	division, err := s.divisionRepo.FindDivisionByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	balances, err := s.GetDivisionBalances(ctx, divisionID, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.divisionTxns.GetDivisionStats(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	liquid := make([]domain.DivisionAccountBalance, 0, len(balances))
	for _, b := range balances {
		if b.Mapping.IsLiquid() {
			liquid = append(liquid, b)
		}
	}
	assets := sumCategory(balances, domain.Assets)
	liabilities := sumCategory(balances, domain.Liabilities)

	return &domain.DivisionSummary{
		Division:         *division,
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetPosition:      assets.Sub(liabilities),
		LiquidBalances:   liquid,
		Stats:            *stats,
	}, nil
}

func (s *divisionBalanceService) mappings(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error) {
	if _, err := s.divisionRepo.FindDivisionByID(ctx, divisionID); err != nil {
		return nil, err
	}
	return s.divisionRepo.ListMappings(ctx, divisionID, true)
}

func (s *divisionBalanceService) balancesFor(ctx context.Context, divisionID string, mappings []domain.DivisionAccount, filter domain.BalanceFilter) ([]domain.DivisionAccountBalance, error) {
	result := make([]domain.DivisionAccountBalance, 0, len(mappings))
	for _, m := range mappings {
		if m.Account == nil {
			return nil, apperrors.NotFoundf("Account %s not found", m.AccountID)
		}
		b, err := s.calculator.GetBalanceBreakdown(ctx, m.AccountID, scoped(divisionID, filter))
		if err != nil {
			return nil, err
		}
		result = append(result, domain.DivisionAccountBalance{Mapping: m, Breakdown: *b})
	}
	return result, nil
}

func scoped(divisionID string, filter domain.BalanceFilter) domain.BalanceFilter {
	return filter.WithEquals(domain.FilterDivisionID, divisionID)
}

func sumCategory(balances []domain.DivisionAccountBalance, category domain.AccountCategory) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		if b.Mapping.Account != nil && b.Mapping.Account.Category == category {
			total = total.Add(b.Breakdown.Balance)
		}
	}
	return total
}
