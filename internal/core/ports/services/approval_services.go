package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// ApprovalWorkflowSvc drives the transaction status state machine.
// Every verb updates the status and appends its log in one database transaction.
type ApprovalWorkflowSvc interface {
	Submit(ctx context.Context, transactionID string) (*domain.Transaction, error)
	Approve(ctx context.Context, transactionID string) (*domain.Transaction, error)
	Reject(ctx context.Context, transactionID string, reason string) (*domain.Transaction, error)
	Void(ctx context.Context, transactionID string, reason string) (*domain.Transaction, error)

	// GetAllowedActions lists the verbs available for the transaction's current status.
	GetAllowedActions(txn domain.Transaction) []domain.TransactionAction

	// GetLogs returns the audit trail, most recent first.
	GetLogs(ctx context.Context, transactionID string) ([]domain.TransactionLog, error)
}
