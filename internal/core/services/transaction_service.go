package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var (
	// ErrNoEntries is returned when a transaction carries no journal entries.
	ErrNoEntries = fmt.Errorf("%w: transaction must have at least one journal entry", apperrors.ErrValidation)
	// ErrMissingDate is returned when a transaction header has no date.
	ErrMissingDate = fmt.Errorf("%w: transaction date is required", apperrors.ErrValidation)
)

type transactionService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	divisionRepo    portsrepo.DivisionScopeReader
	transactionRepo portsrepo.TransactionRepositoryFacade
	txManager       portsrepo.TransactionManager
	actors          portssvc.ActorProvider
}

// NewTransactionService creates the service that validates and persists transactions.
func NewTransactionService(
	accountRepo portsrepo.AccountReader,
	divisionRepo portsrepo.DivisionScopeReader,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	txManager portsrepo.TransactionManager,
	actors portssvc.ActorProvider,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		accountRepo:     accountRepo,
		divisionRepo:    divisionRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		actors:          actors,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// ValidateDoubleEntry checks entry structure and that debits equal credits within tolerance.
func (s *transactionService) ValidateDoubleEntry(entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	for i, e := range entries {
		if !e.EntryType.IsValid() {
			return apperrors.Validationf("entry %d: invalid entry type '%s'", i+1, e.EntryType)
		}
		if err := accounting.ValidateEntryAmount(e.Amount); err != nil {
			return apperrors.Validationf("entry %d: %s", i+1, err.Error())
		}
	}

	debits, credits := domain.SumEntries(entries)
	if !domain.AmountsBalance(debits, credits) {
		return apperrors.Validationf("Double-entry validation failed: Debits (%s) must equal Credits (%s)",
			debits.StringFixed(2), credits.StringFixed(2))
	}
	return nil
}

// ValidateAccountBehaviors loads every referenced account in one query and checks each entry
// against the account's behavior. It returns the loaded accounts keyed by id.
func (s *transactionService) ValidateAccountBehaviors(ctx context.Context, entries []domain.JournalEntry) (map[string]domain.Account, error) {
	// A malformed id cannot name a stored account.
	ids := make([]string, 0, len(entries))
	for _, id := range domain.EntryAccountIDs(entries) {
		if _, err := uuid.Parse(id); err != nil {
			return nil, apperrors.NotFoundf("Account %s not found", id)
		}
		ids = append(ids, id)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for behavior validation")
		return nil, err
	}

	for _, e := range entries {
		account, ok := accounts[e.AccountID]
		if !ok {
			return nil, apperrors.NotFoundf("Account %s not found", e.AccountID)
		}
		if !account.IsLiquid() {
			return nil, apperrors.Policyf("Account '%s' (%s) cannot be used in transactions", account.Name, account.Behavior)
		}
		if account.Behavior == domain.TransitOnly && e.EntryType == domain.Credit {
			return nil, apperrors.Policyf("Account '%s' (TRANSIT_ONLY) can only receive income (DEBIT entry)", account.Name)
		}
		if account.Behavior == domain.CreditOnly && e.EntryType == domain.Debit {
			return nil, apperrors.Policyf("Account '%s' (CREDIT_ONLY) can only be used for expenses (CREDIT entry)", account.Name)
		}
	}
	return accounts, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx)

	entries := dto.ToDomainEntries(req.Entries)
	if err := s.validate(ctx, req.TransactionHeaderRequest, req.DivisionID, entries); err != nil {
		logger.Warn("Transaction rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	ts := now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.Draft,
		DivisionID:    req.DivisionID,
		AttachmentURL: req.AttachmentURL,
		Timestamps:    domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
	}
	applyHeader(&txn, req.TransactionHeaderRequest)
	txn.Entries = prepareEntries(txn.TransactionID, entries, ts)
	if txn.TotalAmount.IsZero() {
		txn.TotalAmount = txn.TotalDebits()
	}

	createdLog := newTransactionLog(ctx, s.actors, txn.TransactionID, domain.ActionCreate, stringPtr("created"), ts)

	err := s.txManager.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.transactionRepo.SaveTransaction(ctx, tx, txn); err != nil {
			return err
		}
		return s.transactionRepo.AppendLog(ctx, tx, createdLog)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to persist transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	txn.Logs = []domain.TransactionLog{createdLog}
	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("total_amount", txn.TotalAmount.StringFixed(2)),
		slog.Int("entries", len(txn.Entries)))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(slog.String("transaction_id", transactionID))

	existing, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !existing.IsEditable() {
		return nil, notEditableError(existing.Status)
	}

	// Division and attachment keep their stored values unless the request sets them.
	divisionID := existing.DivisionID
	if req.DivisionID != nil {
		divisionID = req.DivisionID
	}
	attachmentURL := existing.AttachmentURL
	if req.AttachmentURL != nil {
		attachmentURL = req.AttachmentURL
	}

	entries := dto.ToDomainEntries(req.Entries)
	if err := s.validate(ctx, req.TransactionHeaderRequest, divisionID, entries); err != nil {
		logger.Warn("Transaction update rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	ts := now()
	prepared := prepareEntries(transactionID, entries, ts)

	err = s.txManager.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.transactionRepo.FindTransactionForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		// Status may have moved since the unlocked read above.
		if !locked.IsEditable() {
			return notEditableError(locked.Status)
		}
		if !sameDivision(locked.DivisionID, existing.DivisionID) {
			return fmt.Errorf("%w: transaction %s changed division during the update", apperrors.ErrConflict, transactionID)
		}

		updated := *locked
		applyHeader(&updated, req.TransactionHeaderRequest)
		updated.DivisionID = divisionID
		updated.AttachmentURL = attachmentURL
		updated.Entries = prepared
		if updated.TotalAmount.IsZero() {
			updated.TotalAmount = updated.TotalDebits()
		}
		updated.UpdatedAt = ts

		if err := s.transactionRepo.UpdateTransactionHeader(ctx, tx, updated); err != nil {
			return err
		}
		if err := s.transactionRepo.ReplaceEntries(ctx, tx, transactionID, prepared); err != nil {
			return err
		}
		return s.transactionRepo.AppendLog(ctx, tx, newTransactionLog(ctx, s.actors, transactionID, domain.ActionEdit, nil, ts))
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrPolicy) {
			s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	logger.Info("Transaction updated", slog.Int("entries", len(prepared)))
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, nil, apperrors.Validationf("dateFrom must not be after dateTo")
	}
	return s.transactionRepo.ListTransactions(ctx, filter)
}

// validate runs the header check, the double-entry check, the behavior check and the
// division scope check, in that order.
func (s *transactionService) validate(ctx context.Context, header dto.TransactionHeaderRequest, divisionID *string, entries []domain.JournalEntry) error {
	if header.Date.IsZero() {
		return ErrMissingDate
	}
	if header.TotalAmount.IsNegative() {
		return apperrors.Validationf("total amount must not be negative")
	}
	if err := s.ValidateDoubleEntry(entries); err != nil {
		return err
	}
	if _, err := s.ValidateAccountBehaviors(ctx, entries); err != nil {
		return err
	}
	return s.validateDivisionScope(ctx, divisionID, entries)
}

// validateDivisionScope requires an active division whose active mappings cover every
// entry account. Transactions without a division pass.
func (s *transactionService) validateDivisionScope(ctx context.Context, divisionID *string, entries []domain.JournalEntry) error {
	if divisionID == nil {
		return nil
	}
	division, err := s.divisionRepo.FindDivisionByID(ctx, *divisionID)
	if err != nil {
		return err
	}
	if !division.IsActive {
		return apperrors.Policyf("Division %s is inactive", division.Code)
	}

	mappings, err := s.divisionRepo.ListMappings(ctx, division.DivisionID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to load division mappings", slog.String("division_id", division.DivisionID))
		return err
	}
	mapped := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		mapped[m.AccountID] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := mapped[e.AccountID]; !ok {
			return apperrors.Policyf("Account %s is not mapped to division %s", e.AccountID, division.Code)
		}
	}
	return nil
}

func sameDivision(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// applyHeader copies date, description and total. Division and attachment are set by the caller.
func applyHeader(txn *domain.Transaction, header dto.TransactionHeaderRequest) {
	txn.Date = dto.NewDate(header.Date.Time).Time
	txn.Description = strings.TrimSpace(header.Description)
	txn.TotalAmount = header.TotalAmount
}

// prepareEntries assigns ids and ownership to unsaved entries.
func prepareEntries(transactionID string, entries []domain.JournalEntry, at time.Time) []domain.JournalEntry {
	prepared := make([]domain.JournalEntry, len(entries))
	for i, e := range entries {
		e.EntryID = uuid.NewString()
		e.TransactionID = transactionID
		e.CreatedAt = at
		prepared[i] = e
	}
	return prepared
}

func notEditableError(status domain.TransactionStatus) error {
	return apperrors.Policyf("Transaction cannot be edited in %s status", status)
}
