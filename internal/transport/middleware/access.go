package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/pkg/logger"
)

// RequireRoles lets the request through when the actor holds one of the roles.
func RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok {
				writeAppError(w, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeUnauthorizedAccess))
				return
			}

			if !actor.HasAnyRole(roles...) {
				logger.From(r.Context()).WarnContext(r.Context(), "access denied: role not allowed",
					"required_roles", roles)
				writeAppError(w, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeUnauthorizedAccess))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions checks the actor's role permission set for any of the codes.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok {
				writeAppError(w, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeUnauthorizedAccess))
				return
			}

			for _, p := range permissions {
				if actor.HasPermission(p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.From(r.Context()).WarnContext(r.Context(), "access denied: missing permission",
				"required_permissions", permissions,
				"employee_permissions", actor.Permissions)
			writeAppError(w, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeUnauthorizedAccess))
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
