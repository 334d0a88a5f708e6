package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization builds role-check middleware for route groups. Services perform
// their own role checks as well; this is the first gate at the transport layer.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) requireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasRole(roles...) {
				ra.logger.WarnContext(r.Context(), "access denied: role not allowed",
					"user_id", user.ID,
					"role", user.Role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin restricts a route group to administrators.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.requireRoles(RoleAdmin)
}

// RequireStaff restricts a route group to administrators and employees.
func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.requireRoles(RoleAdmin, RoleEmployee)
}

// RequireClient restricts a route group to client users.
func (ra *RBACAuthorization) RequireClient() func(http.Handler) http.Handler {
	return ra.requireRoles(RoleClient)
}
