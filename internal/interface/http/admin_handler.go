package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/internal/application"
	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/rbac"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/response"
	"github.com/institutoavanca/portal-api/pkg/validation"
)

// AdminHandler exposes the staff surface: allowlist, role grants, roster
// and student lookup.
type AdminHandler struct {
	Admin    *application.AdminService
	Search   *application.SearchService
	Profiles repo.ProfileRepository
	Logger   *logrus.Logger
}

// ListAuthorizedEmails returns the full allowlist; consumed entries carry
// their registered_at stamp.
func (h *AdminHandler) ListAuthorizedEmails(c *gin.Context) {
	items, err := h.Admin.ListAuthorizedEmails()
	if err != nil {
		h.Logger.WithError(err).Error("failed to list authorized emails")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar a lista", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

type authorizeEmailRequest struct {
	Email         string `json:"email" binding:"required,email"`
	FullName      string `json:"full_name" binding:"required"`
	CourseID      string `json:"course_id"`
	StudentNumber string `json:"student_number"`
}

// AuthorizeEmail adds an email to the allowlist and queues the invitation.
func (h *AdminHandler) AuthorizeEmail(c *gin.Context) {
	var req authorizeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	entry := &entity.AuthorizedEmail{
		Email:         req.Email,
		FullName:      req.FullName,
		CourseID:      req.CourseID,
		StudentNumber: req.StudentNumber,
		AuthorizedBy:  c.GetString(middleware.CtxAccountIDKey),
	}
	if err := h.Admin.AuthorizeEmail(c.Request.Context(), entry); err != nil {
		if errors.Is(err, application.ErrDuplicate) {
			response.Error[any](c, http.StatusConflict, "este email já consta da lista", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to authorize email")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível autorizar o email", nil)
		return
	}
	response.Success(c, http.StatusCreated, entry, "email autorizado", nil)
}

// RemoveAuthorizedEmail drops an allowlist entry.
func (h *AdminHandler) RemoveAuthorizedEmail(c *gin.Context) {
	if err := h.Admin.RemoveAuthorizedEmail(c.Param("id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "registo não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to remove authorized email")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível remover o email", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "email removido", nil)
}

// ListAdmins returns the role roster with labels and levels.
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	items, err := h.Admin.ListAdmins()
	if err != nil {
		h.Logger.WithError(err).Error("failed to list admins")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os administradores", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

// Roles returns the static role catalog for the grant form.
func (h *AdminHandler) Roles(c *gin.Context) {
	response.Success(c, http.StatusOK, rbac.Definitions(), "", nil)
}

type grantRoleRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Role      string `json:"role" binding:"required"`
}

// GrantRole assigns a role, subject to the level hierarchy.
func (h *AdminHandler) GrantRole(c *gin.Context) {
	var req grantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	actorID := c.GetString(middleware.CtxAccountIDKey)
	actorRole := rbac.Role(c.GetString(middleware.CtxRoleKey))
	err := h.Admin.GrantRole(c.Request.Context(), actorID, actorRole, req.AccountID, rbac.Role(req.Role))
	switch {
	case errors.Is(err, application.ErrUnknownRole):
		response.Error[any](c, http.StatusBadRequest, "cargo desconhecido", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "não tem permissão para gerir este cargo", nil)
	case err != nil:
		h.Logger.WithError(err).Error("failed to grant role")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível atribuir o cargo", nil)
	default:
		response.Success[any](c, http.StatusOK, nil, "cargo atribuído", nil)
	}
}

// RevokeRole removes the target's role.
func (h *AdminHandler) RevokeRole(c *gin.Context) {
	actorID := c.GetString(middleware.CtxAccountIDKey)
	actorRole := rbac.Role(c.GetString(middleware.CtxRoleKey))
	err := h.Admin.RevokeRole(c.Request.Context(), actorID, actorRole, c.Param("accountID"))
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "o utilizador não tem cargo atribuído", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "não tem permissão para gerir este cargo", nil)
	case err != nil:
		h.Logger.WithError(err).Error("failed to revoke role")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível remover o cargo", nil)
	default:
		response.Success[any](c, http.StatusOK, nil, "cargo removido", nil)
	}
}

// ListStudents pages through profiles, or searches Elasticsearch when a
// query is given.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	if q := c.Query("q"); q != "" && h.Search != nil {
		ids, err := h.Search.SearchStudents(c.Request.Context(), q, 20)
		if err != nil {
			h.Logger.WithError(err).Error("student search failed")
			response.Error[any](c, http.StatusInternalServerError, "a pesquisa falhou", nil)
			return
		}
		out := make([]entity.Profile, 0, len(ids))
		for _, id := range ids {
			if p, err := h.Profiles.GetByID(id); err == nil && p != nil {
				out = append(out, *p)
			}
		}
		response.Success(c, http.StatusOK, out, "", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Profiles.List(limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list students")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os alunos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}
