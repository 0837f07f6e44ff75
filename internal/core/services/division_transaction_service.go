package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
)

type divisionTransactionService struct {
	BaseService
	divisionRepo    portsrepo.DivisionRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	transactions    portssvc.TransactionSvcFacade
}

func NewDivisionTransactionService(
	divisionRepo portsrepo.DivisionRepositoryFacade,
	transactionRepo portsrepo.TransactionReader,
	transactions portssvc.TransactionSvcFacade,
) portssvc.DivisionTransactionSvc {
	return &divisionTransactionService{
		divisionRepo:    divisionRepo,
		transactionRepo: transactionRepo,
		transactions:    transactions,
	}
}

var _ portssvc.DivisionTransactionSvc = (*divisionTransactionService)(nil)

// CreateForDivision creates a DRAFT transaction scoped to a division. The transaction
// service requires the division to be active and every entry account to be actively mapped.
func (s *divisionTransactionService) CreateForDivision(ctx context.Context, divisionID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	req.DivisionID = &divisionID
	txn, err := s.transactions.CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Division transaction created",
		slog.String("division_id", divisionID), slog.String("transaction_id", txn.TransactionID))
	return txn, nil
}

// CreateTransfer moves amount from one mapped account to another: debit the destination, credit the source.
func (s *divisionTransactionService) CreateTransfer(ctx context.Context, divisionID string, req dto.CreateTransferRequest) (*domain.Transaction, error) {
	if req.FromAccountID == req.ToAccountID {
		return nil, apperrors.Validationf("transfer source and destination must differ")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Transfer"
	}
	return s.CreateForDivision(ctx, divisionID, dto.CreateTransactionRequest{
		TransactionHeaderRequest: dto.TransactionHeaderRequest{
			Date:        req.Date,
			Description: description,
			TotalAmount: req.Amount,
		},
		Entries: []dto.JournalEntryRequest{
			{AccountID: req.ToAccountID, EntryType: domain.Debit, Amount: req.Amount},
			{AccountID: req.FromAccountID, EntryType: domain.Credit, Amount: req.Amount},
		},
	})
}

func (s *divisionTransactionService) GetDivisionTransactions(ctx context.Context, divisionID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	if _, err := s.divisionRepo.FindDivisionByID(ctx, divisionID); err != nil {
		return nil, nil, err
	}
	filter.DivisionID = &divisionID
	return s.transactions.ListTransactions(ctx, filter)
}

func (s *divisionTransactionService) GetDivisionStats(ctx context.Context, divisionID string) (*domain.DivisionStats, error) {
	if _, err := s.divisionRepo.FindDivisionByID(ctx, divisionID); err != nil {
		return nil, err
	}
	counts, err := s.transactionRepo.CountTransactionsByStatus(ctx, domain.TransactionFilter{DivisionID: &divisionID})
	if err != nil {
		s.LogError(ctx, err, "Failed to count division transactions", slog.String("division_id", divisionID))
		return nil, err
	}

	stats := &domain.DivisionStats{
		Pending:  counts[domain.Pending],
		Approved: counts[domain.Approved],
		Rejected: counts[domain.Rejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
