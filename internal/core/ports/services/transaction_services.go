package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransaction retrieves a transaction with its entries and logs.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions and the token of the next page.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction validates and persists a new DRAFT transaction.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction replaces header and entries of an editable transaction.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
}

// TransactionValidatorSvc exposes the pre-flight checks run by the writer.
type TransactionValidatorSvc interface {
	// ValidateDoubleEntry fails with ErrValidation unless debits equal credits within tolerance.
	ValidateDoubleEntry(entries []domain.JournalEntry) error

	// ValidateAccountBehaviors checks every entry against its account's behavior.
	ValidateAccountBehaviors(ctx context.Context, entries []domain.JournalEntry) (map[string]domain.Account, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionValidatorSvc
}
