package handlers_test

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceCalculator ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalance(ctx context.Context, accountID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) GetBalanceBreakdown(ctx context.Context, accountID string, filter domain.BalanceFilter) (*domain.BalanceBreakdown, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceBreakdown), args.Error(1)
}

func (m *MockBalanceService) GetAccountBalances(ctx context.Context, accountIDs []string, filter domain.BalanceFilter) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, accountIDs, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) GetBalanceSummaryByCategory(ctx context.Context, filter domain.BalanceFilter) ([]domain.CategorySummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategorySummary), args.Error(1)
}

func (m *MockBalanceService) GetAccountEntries(ctx context.Context, accountID string, filter domain.BalanceFilter) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockBalanceService) GetTotalAssets(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) GetTotalLiabilities(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) GetEquity(ctx context.Context, filter domain.BalanceFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.BalanceCalculatorSvc = (*MockBalanceService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if n := args.Get(1); n != nil {
		next = n.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ValidateDoubleEntry(entries []domain.JournalEntry) error {
	args := m.Called(entries)
	return args.Error(0)
}

func (m *MockTransactionService) ValidateAccountBehaviors(ctx context.Context, entries []domain.JournalEntry) (map[string]domain.Account, error) {
	args := m.Called(ctx, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock ApprovalWorkflow ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) result(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockApprovalService) Submit(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return m.result(m.Called(ctx, transactionID))
}

func (m *MockApprovalService) Approve(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return m.result(m.Called(ctx, transactionID))
}

func (m *MockApprovalService) Reject(ctx context.Context, transactionID string, reason string) (*domain.Transaction, error) {
	return m.result(m.Called(ctx, transactionID, reason))
}

func (m *MockApprovalService) Void(ctx context.Context, transactionID string, reason string) (*domain.Transaction, error) {
	return m.result(m.Called(ctx, transactionID, reason))
}

// GetAllowedActions is answered from the status table instead of expectations,
// every rendered transaction calls it.
func (m *MockApprovalService) GetAllowedActions(txn domain.Transaction) []domain.TransactionAction {
	var actions []domain.TransactionAction
	for _, a := range domain.WorkflowActions() {
		if a.CanPerformOn(txn.Status) {
			actions = append(actions, a)
		}
	}
	return actions
}

func (m *MockApprovalService) GetLogs(ctx context.Context, transactionID string) ([]domain.TransactionLog, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLog), args.Error(1)
}

var _ portssvc.ApprovalWorkflowSvc = (*MockApprovalService)(nil)
