package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/institutoavanca/portal-api/internal/domain/rbac"
)

func requestAs(t *testing.T, role rbac.Role, mw gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(CtxRoleKey, string(role))
	}, mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequirePermissionViewDoesNotOpenMutation(t *testing.T) {
	// chefe_departamento holds users_view but not users.
	if code := requestAs(t, rbac.RoleChefeDepartamento, RequirePermission("users_view")); code != http.StatusOK {
		t.Errorf("users_view route = %d, want 200", code)
	}
	if code := requestAs(t, rbac.RoleChefeDepartamento, RequirePermission("users")); code != http.StatusForbidden {
		t.Errorf("users route = %d, want 403", code)
	}
}

func TestRequirePermissionWildcard(t *testing.T) {
	if code := requestAs(t, rbac.RoleDirectorGeral, RequirePermission("users")); code != http.StatusOK {
		t.Errorf("wildcard role = %d, want 200", code)
	}
}

func TestRequireAdminRejectsStudents(t *testing.T) {
	if code := requestAs(t, "", RequireAdmin()); code != http.StatusForbidden {
		t.Errorf("no-role request = %d, want 403", code)
	}
	if code := requestAs(t, rbac.RoleAssistente, RequireAdmin()); code != http.StatusOK {
		t.Errorf("assistente = %d, want 200", code)
	}
}
