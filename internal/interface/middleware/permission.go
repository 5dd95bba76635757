package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institutoavanca/portal-api/internal/domain/rbac"
	"github.com/institutoavanca/portal-api/pkg/response"
)

// RequirePermission gates a route on a named permission of the session's
// role. The permission string must be the exact one the screen uses:
// "users_view" gates a read-only screen, "users" a mutating one.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := rbac.Role(c.GetString(CtxRoleKey))
		if !rbac.HasPermission(role, perm) {
			response.Error[any](c, http.StatusForbidden, "insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates a route on having any administrative role at all.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := rbac.Role(c.GetString(CtxRoleKey))
		if !rbac.IsAdminRole(role) {
			response.Error[any](c, http.StatusForbidden, "insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
