package http

import (
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/config"
	"github.com/institutoavanca/portal-api/internal/application"
	"github.com/institutoavanca/portal-api/internal/domain/entity"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/response"
	"github.com/institutoavanca/portal-api/pkg/validation"
)

// StudentHandler is the signed-in student's own data: profile,
// enrollments, grades, payments and document requests.
type StudentHandler struct {
	Cfg         *config.Config
	Profiles    repo.ProfileRepository
	Enrollments repo.EnrollmentRepository
	Assessments repo.AssessmentRepository
	Payments    repo.PaymentRepository
	Documents   repo.DocumentRequestRepository
	Courses     repo.CourseRepository
	GCS         *storage.Client
	Search      *application.SearchService
	Logger      *logrus.Logger
}

func (h *StudentHandler) profileID(c *gin.Context) string {
	return c.GetString(middleware.CtxProfileIDKey)
}

type updateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

// UpdateProfile lets the student edit their own contact data. Email and
// student number stay under secretariat control.
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	p, err := h.Profiles.GetByID(h.profileID(c))
	if err != nil || p == nil {
		response.Error[any](c, http.StatusNotFound, "perfil não encontrado", nil)
		return
	}
	p.FullName = req.FullName
	p.Phone = req.Phone
	if err := h.Profiles.Update(p); err != nil {
		h.Logger.WithError(err).Error("failed to update profile")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o perfil", nil)
		return
	}
	if h.Search != nil {
		h.Search.IndexStudent(c.Request.Context(), p)
	}
	response.Success(c, http.StatusOK, p, "perfil actualizado", nil)
}

// UploadAvatar stores the picture in GCS and points the profile at it.
// Multipart field "avatar" carries the image.
func (h *StudentHandler) UploadAvatar(c *gin.Context) {
	p, err := h.Profiles.GetByID(h.profileID(c))
	if err != nil || p == nil {
		response.Error[any](c, http.StatusNotFound, "perfil não encontrado", nil)
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "imagem em falta", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "imagem inválida", nil)
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectPath := fmt.Sprintf("avatars/%s/%s-%s", p.ID, uuid.NewString(), fh.Filename)
	url, err := helpers.UploadObject(c.Request.Context(), h.GCS, h.Cfg.GCSBucket, objectPath, contentType, f)
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar a imagem", nil)
		return
	}
	p.AvatarURL = url
	if err := h.Profiles.Update(p); err != nil {
		h.Logger.WithError(err).Error("failed to store avatar url")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o perfil", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "imagem actualizada", nil)
}

type enrollmentView struct {
	entity.Enrollment
	CourseName string `json:"course_name"`
}

// MyEnrollments lists the student's enrollments with course names joined.
func (h *StudentHandler) MyEnrollments(c *gin.Context) {
	items, err := h.Enrollments.ListByProfile(h.profileID(c))
	if err != nil {
		h.Logger.WithError(err).Error("failed to list enrollments")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar as matrículas", nil)
		return
	}
	out := make([]enrollmentView, 0, len(items))
	for _, e := range items {
		v := enrollmentView{Enrollment: e}
		if course, err := h.Courses.GetByID(e.CourseID); err == nil {
			v.CourseName = course.Name
		}
		out = append(out, v)
	}
	response.Success(c, http.StatusOK, out, "", nil)
}

// MyGrades lists the student's grades across all assessments.
func (h *StudentHandler) MyGrades(c *gin.Context) {
	items, err := h.Assessments.ListGradesByProfile(h.profileID(c))
	if err != nil {
		h.Logger.WithError(err).Error("failed to list grades")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar as notas", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

// MyPayments lists the student's installments, pending and settled.
func (h *StudentHandler) MyPayments(c *gin.Context) {
	items, err := h.Payments.ListByProfile(h.profileID(c))
	if err != nil {
		h.Logger.WithError(err).Error("failed to list payments")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os pagamentos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

type documentRequestBody struct {
	Kind  string `json:"kind" binding:"required,oneof=certificado declaracao historico"`
	Notes string `json:"notes"`
}

// RequestDocument opens a new document request.
func (h *StudentHandler) RequestDocument(c *gin.Context) {
	var req documentRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	d := &entity.DocumentRequest{
		ProfileID: h.profileID(c),
		Kind:      req.Kind,
		Notes:     req.Notes,
		Status:    entity.DocumentRequested,
	}
	if err := h.Documents.Create(d); err != nil {
		h.Logger.WithError(err).Error("failed to create document request")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível registar o pedido", nil)
		return
	}
	response.Success(c, http.StatusCreated, d, "pedido registado", nil)
}

// MyDocuments lists the student's document requests; ready ones carry the
// download URL.
func (h *StudentHandler) MyDocuments(c *gin.Context) {
	items, err := h.Documents.ListByProfile(h.profileID(c))
	if err != nil {
		h.Logger.WithError(err).Error("failed to list document requests")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os pedidos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}
