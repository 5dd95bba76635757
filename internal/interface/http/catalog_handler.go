package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/response"
	"github.com/institutoavanca/portal-api/pkg/validation"
)

// CatalogHandler serves the public course catalog and its admin CRUD.
// The active-course list is cached in Redis; every catalog mutation
// drops the cache.
type CatalogHandler struct {
	Courses     repo.CourseRepository
	Disciplines repo.DisciplineRepository
	Redis       *redis.Client
	Logger      *logrus.Logger
}

const coursesCacheKey = "catalog:courses:active"

// ListCourses returns active courses for the public site; admins can ask
// for the full catalog with ?all=true (never cached).
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	if activeOnly && h.Redis != nil {
		var cached []entity.Course
		if ok, err := helpers.RedisGetJSON(c.Request.Context(), h.Redis, coursesCacheKey, &cached); err == nil && ok {
			response.Success(c, http.StatusOK, cached, "", nil)
			return
		}
	}

	items, err := h.Courses.List(activeOnly)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list courses")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os cursos", nil)
		return
	}
	if activeOnly && h.Redis != nil {
		if err := helpers.RedisSetJSON(c.Request.Context(), h.Redis, coursesCacheKey, items, 5*time.Minute); err != nil {
			h.Logger.WithError(err).Warn("failed to cache course list")
		}
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

func (h *CatalogHandler) dropCoursesCache(c *gin.Context) {
	if h.Redis == nil {
		return
	}
	if err := helpers.RedisDel(c.Request.Context(), h.Redis, coursesCacheKey); err != nil {
		h.Logger.WithError(err).Warn("failed to invalidate course cache")
	}
}

type courseView struct {
	entity.Course
	Disciplines []entity.Discipline `json:"disciplines"`
}

// GetCourse returns one course by slug, with its disciplines.
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.Courses.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "curso não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to load course")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar o curso", nil)
		return
	}
	disciplines, err := h.Disciplines.ListByCourse(course.ID)
	if err != nil {
		h.Logger.WithError(err).Warn("failed to load disciplines")
		disciplines = nil
	}
	response.Success(c, http.StatusOK, courseView{Course: *course, Disciplines: disciplines}, "", nil)
}

type courseRequest struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	Description   string `json:"description"`
	Area          string `json:"area"`
	DurationHours int    `json:"duration_hours" binding:"gte=0"`
	PriceCents    int64  `json:"price_cents" binding:"gte=0"`
	Active        bool   `json:"active"`
}

// CreateCourse adds a catalog entry.
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	course := &entity.Course{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Area:          req.Area,
		DurationHours: req.DurationHours,
		PriceCents:    req.PriceCents,
		Active:        req.Active,
	}
	if err := h.Courses.Create(course); err != nil {
		h.Logger.WithError(err).Error("failed to create course")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar o curso", nil)
		return
	}
	h.dropCoursesCache(c)
	response.Success(c, http.StatusCreated, course, "curso criado", nil)
}

// UpdateCourse replaces a course's editable fields.
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	course := &entity.Course{
		ID:            c.Param("id"),
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Area:          req.Area,
		DurationHours: req.DurationHours,
		PriceCents:    req.PriceCents,
		Active:        req.Active,
	}
	if err := h.Courses.Update(course); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "curso não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to update course")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o curso", nil)
		return
	}
	h.dropCoursesCache(c)
	response.Success(c, http.StatusOK, course, "curso actualizado", nil)
}

// DeleteCourse removes a course; enrollments keep it referenced, so in
// practice catalogs are deactivated rather than deleted.
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	if err := h.Courses.Delete(c.Param("id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "curso não encontrado", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to delete course")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível remover o curso", nil)
		return
	}
	h.dropCoursesCache(c)
	response.Success[any](c, http.StatusOK, nil, "curso removido", nil)
}

type disciplineRequest struct {
	Name      string `json:"name" binding:"required"`
	Hours     int    `json:"hours" binding:"gte=0"`
	SortOrder int    `json:"sort_order"`
}

// CreateDiscipline adds a discipline to a course.
func (h *CatalogHandler) CreateDiscipline(c *gin.Context) {
	var req disciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	d := &entity.Discipline{
		CourseID:  c.Param("id"),
		Name:      req.Name,
		Hours:     req.Hours,
		SortOrder: req.SortOrder,
	}
	if err := h.Disciplines.Create(d); err != nil {
		h.Logger.WithError(err).Error("failed to create discipline")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar a disciplina", nil)
		return
	}
	response.Success(c, http.StatusCreated, d, "disciplina criada", nil)
}

// DeleteDiscipline removes a discipline.
func (h *CatalogHandler) DeleteDiscipline(c *gin.Context) {
	if err := h.Disciplines.Delete(c.Param("disciplineID")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "disciplina não encontrada", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to delete discipline")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível remover a disciplina", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "disciplina removida", nil)
}
