package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// ContentHandler serves announcements and the public blog.
type ContentHandler struct {
	Announcements repo.AnnouncementRepository
	Blog          repo.BlogRepository
	Search        *application.SearchService
	Logger        *logrus.Logger
}

// ListAnnouncements returns notices for the caller's audience: admins see
// everything, students see "all" and "students".
func (h *ContentHandler) ListAnnouncements(c *gin.Context) {
	audience := "students"
	if rbac.IsAdminRole(rbac.Role(c.GetString(middleware.CtxRoleKey))) {
		audience = "admins"
	}
	items, err := h.Announcements.ListForAudience(audience, 20)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list announcements")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os avisos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

type announcementRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required,oneof=all students admins"`
}

// CreateAnnouncement publishes a notice.
func (h *ContentHandler) CreateAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	a := &entity.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  req.Audience,
		CreatedBy: c.GetString(middleware.CtxAccountIDKey),
	}
	if err := h.Announcements.Create(a); err != nil {
		h.Logger.WithError(err).Error("failed to create announcement")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar o aviso", nil)
		return
	}
	response.Success(c, http.StatusCreated, a, "aviso publicado", nil)
}

// DeleteAnnouncement removes a notice.
func (h *ContentHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.Announcements.Delete(c.Param("id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "aviso não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to delete announcement")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível remover o aviso", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "aviso removido", nil)
}

// ListPosts returns published articles for the public site.
func (h *ContentHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Blog.ListPublished(limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list posts")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os artigos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

// GetPost returns one published article by slug.
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.Blog.GetBySlug(c.Param("slug"))
	if err != nil || !post.Published {
		if err != nil && !errors.Is(err, postgres.ErrNotFound) {
			h.Logger.WithError(err).Error("failed to load post")
		}
		response.Error[any](c, http.StatusNotFound, "artigo não encontrado", nil)
		return
	}
	response.Success(c, http.StatusOK, post, "", nil)
}

// ListAllPosts is the admin view, drafts included.
func (h *ContentHandler) ListAllPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Blog.ListAll(limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list all posts")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os artigos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

type postRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body" binding:"required"`
	CoverURL  string `json:"cover_url"`
	Published bool   `json:"published"`
}

// CreatePost writes an article; published ones are mirrored to the search
// index.
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	post := &entity.BlogPost{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		CoverURL:  req.CoverURL,
		Published: req.Published,
		AuthorID:  c.GetString(middleware.CtxAccountIDKey),
	}
	if post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := h.Blog.Create(post); err != nil {
		h.Logger.WithError(err).Error("failed to create post")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar o artigo", nil)
		return
	}
	if post.Published && h.Search != nil {
		h.Search.IndexPost(c.Request.Context(), post)
	}
	response.Success(c, http.StatusCreated, post, "artigo criado", nil)
}

// UpdatePost replaces an article's editable fields.
func (h *ContentHandler) UpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	existing, err := h.Blog.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "artigo não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to load post")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o artigo", nil)
		return
	}
	existing.Title = req.Title
	existing.Slug = req.Slug
	existing.Excerpt = req.Excerpt
	existing.Body = req.Body
	existing.CoverURL = req.CoverURL
	if req.Published && !existing.Published {
		now := time.Now()
		existing.PublishedAt = &now
	}
	existing.Published = req.Published
	if err := h.Blog.Update(existing); err != nil {
		h.Logger.WithError(err).Error("failed to update post")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o artigo", nil)
		return
	}
	if h.Search != nil {
		if existing.Published {
			h.Search.IndexPost(c.Request.Context(), existing)
		} else {
			h.Search.DeletePost(c.Request.Context(), existing.ID)
		}
	}
	response.Success(c, http.StatusOK, existing, "artigo actualizado", nil)
}

// DeletePost removes an article and its search document.
func (h *ContentHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.Blog.Delete(id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "artigo não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to delete post")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível remover o artigo", nil)
		return
	}
	if h.Search != nil {
		h.Search.DeletePost(c.Request.Context(), id)
	}
	response.Success[any](c, http.StatusOK, nil, "artigo removido", nil)
}
