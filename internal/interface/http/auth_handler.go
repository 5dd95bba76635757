package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/internal/application"
	"github.com/institutoavanca/portal-api/internal/domain/rbac"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/response"
	"github.com/institutoavanca/portal-api/pkg/validation"
)

// AuthHandler exposes signup, login, refresh, logout and the session view.
type AuthHandler struct {
	Auth     *application.AuthService
	Search   *application.SearchService
	Profiles repo.ProfileRepository
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Signup creates an account for a pre-authorized email. The rejection
// message is the same whether the email was never authorized or already
// used, so the endpoint cannot be probed for either list.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	profile, err := h.Auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailNotAuthorized) {
			response.Error[any](c, http.StatusForbidden, "Este email não está autorizado a criar conta. Contacte a secretaria.", nil)
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar a conta", nil)
		return
	}
	if h.Search != nil {
		h.Search.IndexStudent(c.Request.Context(), profile)
	}
	response.Success(c, http.StatusCreated, gin.H{"profile_id": profile.ID}, "conta criada", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionView struct {
	AccountID string `json:"account_id"`
	ProfileID string `json:"profile_id,omitempty"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role,omitempty"`
	RoleLabel string `json:"role_label"`
	IsAdmin   bool   `json:"is_admin"`
}

// Login authenticates and sets the cookie pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	sess, pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "email ou palavra-passe incorrectos", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, sessionView{
		AccountID: sess.AccountID,
		ProfileID: sess.ProfileID,
		Email:     sess.Email,
		FullName:  sess.FullName,
		Role:      string(sess.Role),
		RoleLabel: sess.RoleLabel,
		IsAdmin:   rbac.IsAdminRole(sess.Role),
	}, "sessão iniciada", nil)
}

// Refresh rotates the token pair using the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "sessão expirada", nil)
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "sessão expirada", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, nil, "sessão renovada", nil)
}

// Logout drops the server session and clears cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Auth.Logout(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "sessão terminada", nil)
}

// Me returns the current session: profile plus role and its label. The
// fallback label is returned for accounts without any role.
func (h *AuthHandler) Me(c *gin.Context) {
	role := rbac.Role(c.GetString(middleware.CtxRoleKey))
	view := sessionView{
		AccountID: c.GetString(middleware.CtxAccountIDKey),
		ProfileID: c.GetString(middleware.CtxProfileIDKey),
		Role:      string(role),
		RoleLabel: rbac.AdminLabel(role),
		IsAdmin:   rbac.IsAdminRole(role),
	}
	if view.ProfileID != "" {
		if p, err := h.Profiles.GetByID(view.ProfileID); err == nil && p != nil {
			view.Email = p.Email
			view.FullName = p.FullName
		}
	}
	response.Success(c, http.StatusOK, view, "", nil)
}
