package middleware

import (
	"log/slog"
	"net/http"
)

// RoleAdministrator may perform every operation, including freezing estates
// and overriding lifecycle status.
const RoleAdministrator = "administrator"

// RequireRole gates a route group on the role claim set by RequireAuth.
// It must run after RequireAuth in the chain.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if GetRole(ctx) != role {
				logger.WarnContext(ctx, "forbidden - insufficient role",
					"request_id", GetRequestID(ctx),
					"required_role", role,
					"actual_role", GetRole(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"` + role + ` role required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
