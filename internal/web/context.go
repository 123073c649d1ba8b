package web

import (
	"context"
	"net/http"
)

type contextKey string

const ctxKeyActor contextKey = "actor_id"

// ContextWithActor records the acting user's identity for audit logging.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// ActorFromContext extracts the acting user's identity, falling back to
// "anonymous" when none was recorded.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyActor).(string); ok && v != "" {
		return v
	}
	return "anonymous"
}

// withRequestActor derives the actor from request headers. Authenticated
// deployments put a stable identity in X-Actor-ID; otherwise the API key's
// presence alone does not identify a person and the remote address is used.
func withRequestActor(ctx context.Context, r *http.Request) context.Context {
	actor := r.Header.Get("X-Actor-ID")
	if actor == "" {
		actor = r.RemoteAddr
	}
	return ContextWithActor(ctx, actor)
}
