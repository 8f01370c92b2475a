package middleware

import (
	"context"
	"net/http"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorMiddleware extracts the authenticated identity from the gateway
// headers and stores it on the request context. Authentication itself
// happens upstream; this service trusts X-User-ID and X-User-Role as set by
// the gateway and treats their absence as an anonymous request.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := entities.Actor{
			ID:   r.Header.Get("X-User-ID"),
			Role: r.Header.Get("X-User-Role"),
		}
		if actor.ID != "" && actor.Role == "" {
			actor.Role = entities.RoleCustomer
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the actor stored by ActorMiddleware. The zero
// Actor means anonymous.
func ActorFromContext(ctx context.Context) entities.Actor {
	if actor, ok := ctx.Value(actorContextKey).(entities.Actor); ok {
		return actor
	}
	return entities.Actor{}
}
