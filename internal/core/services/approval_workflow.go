package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// transitionHook runs after the status check and before the status write, inside the
// same database transaction. It may return a voucher number and replace the log comment.
type transitionHook func(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) (voucherNo *string, comment *string, err error)

type approvalWorkflow struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	txManager       portsrepo.TransactionManager
	vouchers        portssvc.VoucherGeneratorSvc
	actors          portssvc.ActorProvider
}

// NewApprovalWorkflow creates the service that moves transactions through their statuses.
func NewApprovalWorkflow(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	txManager portsrepo.TransactionManager,
	vouchers portssvc.VoucherGeneratorSvc,
	actors portssvc.ActorProvider,
) portssvc.ApprovalWorkflowSvc {
	return &approvalWorkflow{
		transactionRepo: transactionRepo,
		txManager:       txManager,
		vouchers:        vouchers,
		actors:          actors,
	}
}

var _ portssvc.ApprovalWorkflowSvc = (*approvalWorkflow)(nil)

func (w *approvalWorkflow) Submit(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return w.transition(ctx, transactionID, domain.ActionSubmit, nil,
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) (*string, *string, error) {
			if len(txn.Entries) == 0 || !txn.IsBalanced() {
				return nil, nil, apperrors.Validationf("Transaction journal entries are not balanced")
			}
			return nil, nil, nil
		})
}

func (w *approvalWorkflow) Approve(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return w.transition(ctx, transactionID, domain.ActionApprove, nil,
		func(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) (*string, *string, error) {
			voucherNo, err := w.vouchers.Generate(ctx, tx, *txn)
			if err != nil {
				return nil, nil, err
			}
			return &voucherNo, stringPtr("Approved with voucher number: " + voucherNo), nil
		})
}

func (w *approvalWorkflow) Reject(ctx context.Context, transactionID string, reason string) (*domain.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validationf("Rejection reason is required")
	}
	return w.transition(ctx, transactionID, domain.ActionReject, &reason, nil)
}

func (w *approvalWorkflow) Void(ctx context.Context, transactionID string, reason string) (*domain.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validationf("Void reason is required")
	}
	return w.transition(ctx, transactionID, domain.ActionVoid, &reason, nil)
}

func (w *approvalWorkflow) GetAllowedActions(txn domain.Transaction) []domain.TransactionAction {
	actions := make([]domain.TransactionAction, 0, 2)
	for _, a := range domain.WorkflowActions() {
		if a.CanPerformOn(txn.Status) {
			actions = append(actions, a)
		}
	}
	return actions
}

func (w *approvalWorkflow) GetLogs(ctx context.Context, transactionID string) ([]domain.TransactionLog, error) {
	// Resolve the transaction first so an unknown id reports not found instead of an empty trail.
	if _, err := w.transactionRepo.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	return w.transactionRepo.FindLogsByTransactionID(ctx, transactionID)
}

// transition locks the row, checks the state machine, runs hook, writes the new status
// and appends the log, all in one unit of work. The committed transaction is reloaded.
func (w *approvalWorkflow) transition(ctx context.Context, transactionID string, action domain.TransactionAction, comment *string, hook transitionHook) (*domain.Transaction, error) {
	logger := w.GetLogger(ctx).With(
		slog.String("transaction_id", transactionID),
		slog.String("action", string(action)))

	target, _ := action.ResultingStatus()

	err := w.txManager.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		txn, err := w.transactionRepo.FindTransactionForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if !txn.Status.CanTransitionTo(target) {
			return apperrors.Policyf("Cannot %s transaction from %s status", strings.ToLower(string(action)), txn.Status)
		}

		var voucherNo *string
		logComment := comment
		if hook != nil {
			v, c, err := hook(ctx, tx, txn)
			if err != nil {
				return err
			}
			voucherNo = v
			if c != nil {
				logComment = c
			}
		}

		ts := now()
		if err := w.transactionRepo.CompareAndSetStatus(ctx, tx, transactionID, txn.Status, target, voucherNo, ts); err != nil {
			return err
		}
		return w.transactionRepo.AppendLog(ctx, tx, newTransactionLog(ctx, w.actors, transactionID, action, logComment, ts))
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPolicy) || errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Workflow transition refused", slog.String("error", err.Error()))
		} else {
			w.LogError(ctx, err, "Workflow transition failed",
				slog.String("transaction_id", transactionID),
				slog.String("action", string(action)))
		}
		return nil, err
	}

	logger.Info("Transaction moved", slog.String("status", string(target)))
	return w.transactionRepo.FindTransactionByID(ctx, transactionID)
}
