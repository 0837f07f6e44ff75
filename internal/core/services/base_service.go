package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// now returns the current time truncated to microseconds, matching Postgres timestamp precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// newTransactionLog builds an audit record for the actor of ctx.
func newTransactionLog(ctx context.Context, actors portssvc.ActorProvider, transactionID string, action domain.TransactionAction, comment *string, at time.Time) domain.TransactionLog {
	actorID := portssvc.SystemActorID
	if actors != nil {
		actorID = actors.CurrentActorID(ctx)
	}
	return domain.TransactionLog{
		LogID:         uuid.NewString(),
		TransactionID: transactionID,
		ActorID:       actorID,
		Action:        action,
		Comment:       comment,
		CreatedAt:     at,
	}
}

func stringPtr(s string) *string {
	return &s
}
