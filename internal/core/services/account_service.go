package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
)

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, apperrors.Validationf("account code and name are required")
	}
	if !req.Category.IsValid() {
		return nil, apperrors.Validationf("invalid account category '%s'", req.Category)
	}
	behavior := req.Behavior
	if behavior == "" {
		behavior = domain.Flexible
	}
	if !behavior.IsValid() {
		return nil, apperrors.Validationf("invalid account behavior '%s'", behavior)
	}

	ts := now()
	account := domain.Account{
		AccountID:  uuid.NewString(),
		Code:       code,
		Name:       name,
		Category:   req.Category,
		Behavior:   behavior,
		Timestamps: domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code '%s' is already in use", apperrors.ErrDuplicate, code)
		}
		s.LogError(ctx, err, "Failed to save account to repository", slog.String("code", code))
		return nil, fmt.Errorf("failed to create account in service: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, strings.TrimSpace(code))
}

func (s *accountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, apperrors.Validationf("invalid account category '%s'", *filter.Category)
	}
	if filter.Behavior != nil && !filter.Behavior.IsValid() {
		return nil, apperrors.Validationf("invalid account behavior '%s'", *filter.Behavior)
	}
	return s.accountRepo.ListAccounts(ctx, filter)
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validationf("account name must not be empty")
		}
		account.Name = name
	}
	if req.Behavior != nil {
		if !req.Behavior.IsValid() {
			return nil, apperrors.Validationf("invalid account behavior '%s'", *req.Behavior)
		}
		account.Behavior = *req.Behavior
	}
	if req.Category != nil && *req.Category != account.Category {
		if !req.Category.IsValid() {
			return nil, apperrors.Validationf("invalid account category '%s'", *req.Category)
		}
		// Changing the category would flip the sign of balances already derived from entries.
		hasEntries, err := s.accountRepo.AccountHasEntries(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if hasEntries {
			return nil, apperrors.Policyf("Account '%s' has journal entries; its category cannot change", account.Name)
		}
		account.Category = *req.Category
	}
	account.UpdatedAt = now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	hasEntries, err := s.accountRepo.AccountHasEntries(ctx, accountID)
	if err != nil {
		return err
	}
	if hasEntries {
		return apperrors.Policyf("Account %s is referenced by journal entries and cannot be deleted", accountID)
	}
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrPolicy) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
