package middleware

import (
	"context"

	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
)

// ContextActorProvider resolves the actor from the id AuthMiddleware placed in the request context.
type ContextActorProvider struct{}

var _ portssvc.ActorProvider = ContextActorProvider{}

func (ContextActorProvider) CurrentActorID(ctx context.Context) string {
	if userID, ok := GetUserIDFromCtx(ctx); ok {
		return userID
	}
	return portssvc.SystemActorID
}

func (ContextActorProvider) HasCurrentActor(ctx context.Context) bool {
	_, ok := GetUserIDFromCtx(ctx)
	return ok
}
