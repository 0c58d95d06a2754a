package users

import (
	"log/slog"
	"net/http"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

// Middleware resolves the session user into an actor and enforces
// module/role access on routes. Unlike the UI-only gates of a pure
// client application, failing checks here block the mutation itself.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// LoadActor resolves the session's user and stores the actor in the
// request context. Requests without a bound user pass through
// unauthenticated; RequireModule/RequireRole reject them later.
func (m Middleware) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" || sess.Tenant() == "" {
			next.ServeHTTP(w, r)
			return
		}
		u, err := m.Service.Get(r.Context(), shared.Actor{TenantID: sess.Tenant()}, sess.User())
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("load session actor", slog.String("user_id", sess.User()), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := shared.ContextWithActor(r.Context(), u.Actor())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireModule ensures the actor is scoped to the named module.
func (m Middleware) RequireModule(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !actor.HasModule(module) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole ensures the actor holds one of the listed roles.
func (m Middleware) RequireRole(roles ...shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}
