package auth

import (
	"log/slog"
	"net/http"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/observability"
	"github.com/upca/personnel-console/internal/transport"
)

// RBACAuthorization guards routes with the permission model. It must run
// after AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, module access.Module, action access.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := internal.PrincipalFromContext(r.Context())
		if !ok {
			ra.Logger.WarnContext(r.Context(), "authorization check failed: no principal in context")
			ra.WriteAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
			return
		}

		if !principal.Can(module, action) {
			ra.Logger.WarnContext(r.Context(), "access denied",
				"user_id", principal.ID,
				"role", principal.Role,
				"module", module,
				"action", action)
			observability.RecordAccessDenied(module.String(), action.String())
			ra.WriteAppError(w, internal.ErrAccessDenied.WithDetails(map[string]string{
				"module": module.String(),
				"action": action.String(),
			}))
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequirePermission returns middleware that admits only principals allowed
// to perform action on module.
func (ra *RBACAuthorization) RequirePermission(module access.Module, action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, module, action)
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.WriteAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
				return
			}
			if !principal.IsAdmin() {
				ra.Logger.WarnContext(r.Context(), "access denied: admin role required", "user_id", principal.ID)
				ra.WriteAppError(w, internal.ErrAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
