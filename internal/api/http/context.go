package http

import (
	"context"

	"suit-rental-backend/internal/domain"
)

type ctxKey int

const actorKey ctxKey = iota

func withActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller placed in the request context by the
// auth middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
