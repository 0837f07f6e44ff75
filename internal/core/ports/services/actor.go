package services

import "context"

// SystemActorID is recorded in audit logs when no actor is present.
const SystemActorID = "system"

// ActorProvider supplies the identity written to transaction logs.
// The returned id is opaque and never dereferenced.
type ActorProvider interface {
	CurrentActorID(ctx context.Context) string
	HasCurrentActor(ctx context.Context) bool
}
