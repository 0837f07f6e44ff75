package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
)

type divisionAccountService struct {
	BaseService
	divisionRepo portsrepo.DivisionRepositoryFacade
	accountRepo  portsrepo.AccountReader
}

func NewDivisionAccountService(
	divisionRepo portsrepo.DivisionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
) portssvc.DivisionAccountSvc {
	return &divisionAccountService{divisionRepo: divisionRepo, accountRepo: accountRepo}
}

var _ portssvc.DivisionAccountSvc = (*divisionAccountService)(nil)

// MapAccount adds the account to the division, or updates alias and active flag of an existing mapping.
func (s *divisionAccountService) MapAccount(ctx context.Context, divisionID string, req dto.MapAccountRequest) (*domain.DivisionAccount, error) {
	if _, err := s.divisionRepo.FindDivisionByID(ctx, divisionID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return s.upsert(ctx, divisionID, *account, req)
}

// MapAccounts maps every request or none of them.
func (s *divisionAccountService) MapAccounts(ctx context.Context, divisionID string, reqs []dto.MapAccountRequest) ([]domain.DivisionAccount, error) {
	if _, err := s.divisionRepo.FindDivisionByID(ctx, divisionID); err != nil {
		return nil, err
	}
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.AccountID
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.NotFoundf("Account %s not found", id)
		}
	}

	ts := now()
	pending := make([]domain.DivisionAccount, len(reqs))
	for i, r := range reqs {
		pending[i] = newMapping(divisionID, r, ts)
	}
	mapped, err := s.divisionRepo.UpsertMappings(ctx, pending)
	if err != nil {
		s.LogError(ctx, err, "Failed to map accounts", slog.String("division_id", divisionID))
		return nil, err
	}
	for i := range mapped {
		account := accounts[mapped[i].AccountID]
		mapped[i].Account = &account
	}
	s.LogInfo(ctx, "Accounts mapped to division", slog.String("division_id", divisionID), slog.Int("count", len(mapped)))
	return mapped, nil
}

func (s *divisionAccountService) UnmapAccount(ctx context.Context, divisionID, accountID string) error {
	if err := s.divisionRepo.DeleteMapping(ctx, divisionID, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to unmap account",
				slog.String("division_id", divisionID), slog.String("account_id", accountID))
		}
		return err
	}
	return nil
}

func (s *divisionAccountService) UpdateAlias(ctx context.Context, divisionID, accountID, alias string) (*domain.DivisionAccount, error) {
	mapping, err := s.divisionRepo.FindMapping(ctx, divisionID, accountID)
	if err != nil {
		return nil, err
	}
	mapping.AliasName = strings.TrimSpace(alias)
	return s.update(ctx, mapping)
}

func (s *divisionAccountService) SetMappingActive(ctx context.Context, divisionID, accountID string, active bool) (*domain.DivisionAccount, error) {
	mapping, err := s.divisionRepo.FindMapping(ctx, divisionID, accountID)
	if err != nil {
		return nil, err
	}
	mapping.IsActive = active
	return s.update(ctx, mapping)
}

func (s *divisionAccountService) GetActiveAccounts(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error) {
	return s.divisionRepo.ListMappings(ctx, divisionID, true)
}

// GetLiquidAccounts returns active mappings whose account may appear in entries.
func (s *divisionAccountService) GetLiquidAccounts(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error) {
	mappings, err := s.divisionRepo.ListMappings(ctx, divisionID, true)
	if err != nil {
		return nil, err
	}
	liquid := make([]domain.DivisionAccount, 0, len(mappings))
	for _, m := range mappings {
		if m.IsLiquid() {
			liquid = append(liquid, m)
		}
	}
	return liquid, nil
}

// IsMapped reports whether an active mapping exists.
func (s *divisionAccountService) IsMapped(ctx context.Context, divisionID, accountID string) (bool, error) {
	mapping, err := s.divisionRepo.FindMapping(ctx, divisionID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return mapping.IsActive, nil
}

func (s *divisionAccountService) GetMapping(ctx context.Context, divisionID, accountID string) (*domain.DivisionAccount, error) {
	return s.divisionRepo.FindMapping(ctx, divisionID, accountID)
}

func (s *divisionAccountService) GetAllMappings(ctx context.Context, divisionID string) ([]domain.DivisionAccount, error) {
	return s.divisionRepo.ListMappings(ctx, divisionID, false)
}

func (s *divisionAccountService) upsert(ctx context.Context, divisionID string, account domain.Account, req dto.MapAccountRequest) (*domain.DivisionAccount, error) {
	mapping, err := s.divisionRepo.UpsertMapping(ctx, newMapping(divisionID, req, now()))
	if err != nil {
		s.LogError(ctx, err, "Failed to map account",
			slog.String("division_id", divisionID), slog.String("account_id", account.AccountID))
		return nil, err
	}
	mapping.Account = &account
	return mapping, nil
}

func newMapping(divisionID string, req dto.MapAccountRequest, ts time.Time) domain.DivisionAccount {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return domain.DivisionAccount{
		MappingID:  uuid.NewString(),
		DivisionID: divisionID,
		AccountID:  req.AccountID,
		AliasName:  strings.TrimSpace(req.AliasName),
		IsActive:   active,
		Timestamps: domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
	}
}

func (s *divisionAccountService) update(ctx context.Context, mapping *domain.DivisionAccount) (*domain.DivisionAccount, error) {
	mapping.UpdatedAt = now()
	if err := s.divisionRepo.UpdateMapping(ctx, *mapping); err != nil {
		s.LogError(ctx, err, "Failed to update division mapping", slog.String("mapping_id", mapping.MappingID))
		return nil, err
	}
	return mapping, nil
}
