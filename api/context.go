package api

import (
	"context"
)

type keyType string

const actorKey keyType = "actor"

// ctxWithActor adds the authenticated admin to the context
func ctxWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ctxGetActor retrieves the authenticated admin, or "anonymous" on public routes
func ctxGetActor(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	return "anonymous"
}
