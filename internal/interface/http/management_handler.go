package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/config"
	"github.com/institutoavanca/portal-api/internal/domain/entity"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/mailer"
	tpl "github.com/institutoavanca/portal-api/pkg/mailer/templates"
	"github.com/institutoavanca/portal-api/pkg/response"
	"github.com/institutoavanca/portal-api/pkg/validation"
)

// ManagementHandler is the secretariat's back office: payments, document
// issuing, enrollments, assessments and inscription follow-up.
type ManagementHandler struct {
	Cfg          *config.Config
	Payments     repo.PaymentRepository
	Documents    repo.DocumentRequestRepository
	Enrollments  repo.EnrollmentRepository
	Assessments  repo.AssessmentRepository
	Profiles     repo.ProfileRepository
	Inscriptions repo.InscriptionRepository
	GCS          *storage.Client
	Pub          *helpers.RabbitPublisher
	Logger       *logrus.Logger
}

type createPaymentRequest struct {
	EnrollmentID string `json:"enrollment_id" binding:"required,uuid"`
	Description  string `json:"description" binding:"required"`
	AmountCents  int64  `json:"amount_cents" binding:"required,gt=0"`
	DueDate      string `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// CreatePayment opens an installment on an enrollment.
func (h *ManagementHandler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	enr, err := h.Enrollments.GetByID(req.EnrollmentID)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "matrícula não encontrada", nil)
		return
	}
	due, _ := time.Parse("2006-01-02", req.DueDate)
	p := &entity.Payment{
		EnrollmentID: enr.ID,
		ProfileID:    enr.ProfileID,
		Description:  req.Description,
		AmountCents:  req.AmountCents,
		Status:       entity.PaymentPending,
		DueDate:      due,
	}
	if err := h.Payments.Create(p); err != nil {
		h.Logger.WithError(err).Error("failed to create payment")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar o pagamento", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "pagamento criado", nil)
}

// ListPayments filters installments by status.
func (h *ManagementHandler) ListPayments(c *gin.Context) {
	status := c.DefaultQuery("status", entity.PaymentPending)
	items, err := h.Payments.ListByStatus(status)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list payments")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os pagamentos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

// MarkPaymentPaid settles an installment and queues the receipt email.
func (h *ManagementHandler) MarkPaymentPaid(c *gin.Context) {
	id := c.Param("id")
	p, err := h.Payments.GetByID(id)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "pagamento não encontrado", nil)
		return
	}
	if err := h.Payments.MarkPaid(id, time.Now()); err != nil {
		h.Logger.WithError(err).Error("failed to mark payment paid")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível registar o pagamento", nil)
		return
	}
	h.sendReceipt(c, p)
	response.Success[any](c, http.StatusOK, nil, "pagamento registado", nil)
}

func (h *ManagementHandler) sendReceipt(c *gin.Context, p *entity.Payment) {
	if h.Pub == nil || !h.Cfg.MailSendEnabled {
		return
	}
	profile, err := h.Profiles.GetByID(p.ProfileID)
	if err != nil || profile == nil {
		return
	}
	job := mailer.EmailJob{
		To:       profile.Email,
		Template: tpl.PaymentReceipt,
		Data: map[string]any{
			"FullName":    profile.FullName,
			"Amount":      fmt.Sprintf("%.2f EUR", float64(p.AmountCents)/100),
			"Description": p.Description,
			"Institution": h.Cfg.AppName,
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).Warn("failed to enqueue payment receipt")
	}
}

// PendingDocuments lists open document requests across all students.
func (h *ManagementHandler) PendingDocuments(c *gin.Context) {
	items, err := h.Documents.ListPending()
	if err != nil {
		h.Logger.WithError(err).Error("failed to list pending documents")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar os pedidos", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

// IssueDocument uploads the issued file to object storage and marks the
// request ready. Multipart field "file" carries the document.
func (h *ManagementHandler) IssueDocument(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Documents.GetByID(id); err != nil {
		response.Error[any](c, http.StatusNotFound, "pedido não encontrado", nil)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "ficheiro em falta", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "ficheiro inválido", nil)
		return
	}
	defer f.Close()

	objectPath := fmt.Sprintf("documents/%s/%s-%s", id, uuid.NewString(), fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := helpers.UploadObject(c.Request.Context(), h.GCS, h.Cfg.GCSBucket, objectPath, contentType, f)
	if err != nil {
		h.Logger.WithError(err).Error("document upload failed")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar o ficheiro", nil)
		return
	}
	if err := h.Documents.UpdateStatus(id, entity.DocumentReady, url); err != nil {
		h.Logger.WithError(err).Error("failed to update document request")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o pedido", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"file_url": url}, "documento emitido", nil)
}

type updateDocumentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=requested in_process ready delivered"`
}

// UpdateDocumentStatus moves a request along its lifecycle without
// touching the file.
func (h *ManagementHandler) UpdateDocumentStatus(c *gin.Context) {
	var req updateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	d, err := h.Documents.GetByID(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "pedido não encontrado", nil)
		return
	}
	if err := h.Documents.UpdateStatus(d.ID, req.Status, d.FileURL); err != nil {
		h.Logger.WithError(err).Error("failed to update document status")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar o pedido", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "pedido actualizado", nil)
}

// CourseEnrollments lists enrollments of one course.
func (h *ManagementHandler) CourseEnrollments(c *gin.Context) {
	items, err := h.Enrollments.ListByCourse(c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Error("failed to list course enrollments")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar as matrículas", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

type createEnrollmentRequest struct {
	ProfileID string `json:"profile_id" binding:"required,uuid"`
	CourseID  string `json:"course_id" binding:"required,uuid"`
}

// CreateEnrollment enrolls a student manually.
func (h *ManagementHandler) CreateEnrollment(c *gin.Context) {
	var req createEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	e := &entity.Enrollment{ProfileID: req.ProfileID, CourseID: req.CourseID, Status: entity.EnrollmentActive}
	if err := h.Enrollments.Create(e); err != nil {
		h.Logger.WithError(err).Error("failed to create enrollment")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar a matrícula", nil)
		return
	}
	response.Success(c, http.StatusCreated, e, "matrícula criada", nil)
}

type updateEnrollmentRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended concluded"`
}

// UpdateEnrollmentStatus suspends, reactivates or concludes an enrollment.
func (h *ManagementHandler) UpdateEnrollmentStatus(c *gin.Context) {
	var req updateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	if err := h.Enrollments.UpdateStatus(c.Param("id"), req.Status); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "matrícula não encontrada", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to update enrollment")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar a matrícula", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "matrícula actualizada", nil)
}

type createAssessmentRequest struct {
	DisciplineID string  `json:"discipline_id" binding:"required,uuid"`
	Title        string  `json:"title" binding:"required"`
	Weight       float64 `json:"weight" binding:"gt=0,lte=1"`
	Date         string  `json:"date" binding:"required,datetime=2006-01-02"`
}

// CreateAssessment adds a graded moment to a discipline.
func (h *ManagementHandler) CreateAssessment(c *gin.Context) {
	var req createAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)
	a := &entity.Assessment{DisciplineID: req.DisciplineID, Title: req.Title, Weight: req.Weight, Date: date}
	if err := h.Assessments.CreateAssessment(a); err != nil {
		h.Logger.WithError(err).Error("failed to create assessment")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível criar a avaliação", nil)
		return
	}
	response.Success(c, http.StatusCreated, a, "avaliação criada", nil)
}

type gradeRequest struct {
	AssessmentID string  `json:"assessment_id" binding:"required,uuid"`
	ProfileID    string  `json:"profile_id" binding:"required,uuid"`
	Value        float64 `json:"value" binding:"grade"`
}

// UpsertGrade records or corrects a student's score.
func (h *ManagementHandler) UpsertGrade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	g := &entity.Grade{
		AssessmentID: req.AssessmentID,
		ProfileID:    req.ProfileID,
		Value:        req.Value,
		GradedBy:     c.GetString(middleware.CtxAccountIDKey),
	}
	if err := h.Assessments.UpsertGrade(g); err != nil {
		h.Logger.WithError(err).Error("failed to record grade")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível registar a nota", nil)
		return
	}
	response.Success(c, http.StatusOK, g, "nota registada", nil)
}

// ListInscriptions pages the lead list, optionally by status.
func (h *ManagementHandler) ListInscriptions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Inscriptions.List(c.Query("status"), limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list inscriptions")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar as inscrições", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

type updateInscriptionRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted converted discarded"`
}

// UpdateInscriptionStatus moves a lead through follow-up.
func (h *ManagementHandler) UpdateInscriptionStatus(c *gin.Context) {
	var req updateInscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	if err := h.Inscriptions.UpdateStatus(c.Param("id"), req.Status); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "inscrição não encontrada", nil)
			return
		}
		h.Logger.WithError(err).Error("failed to update inscription")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível actualizar a inscrição", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "inscrição actualizada", nil)
}
