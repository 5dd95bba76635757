package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/config"
	"github.com/institutoavanca/portal-api/internal/domain/entity"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/domain/vocational"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/response"
	"github.com/institutoavanca/portal-api/pkg/validation"
)

// PublicHandler covers the anonymous marketing surface: pre-enrollments,
// WhatsApp contact deep links and the vocational test.
type PublicHandler struct {
	Cfg          *config.Config
	Inscriptions repo.InscriptionRepository
	Vocational   repo.VocationalRepository
	Courses      repo.CourseRepository
	Logger       *logrus.Logger
}

type inscriptionRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	CourseID  string `json:"course_id" binding:"required,uuid"`
	Schedule  string `json:"schedule" binding:"required,oneof=laboral pos-laboral"`
	Message   string `json:"message"`
}

// SubmitInscription records a pre-enrollment lead and hands back a
// WhatsApp deep link so the visitor can continue the conversation with
// the secretariat.
func (h *PublicHandler) SubmitInscription(c *gin.Context) {
	var req inscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	courseName := ""
	course, err := h.Courses.GetByID(req.CourseID)
	if err != nil || !course.Active {
		response.Error[any](c, http.StatusBadRequest, "curso inválido", nil)
		return
	}
	courseName = course.Name

	ins := &entity.Inscription{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		CourseID: req.CourseID,
		Schedule: req.Schedule,
		Message:  req.Message,
		Status:   entity.InscriptionNew,
	}
	if req.BirthDate != "" {
		if bd, err := time.Parse("2006-01-02", req.BirthDate); err == nil {
			ins.BirthDate = &bd
		}
	}
	if err := h.Inscriptions.Create(ins); err != nil {
		h.Logger.WithError(err).Error("failed to create inscription")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível registar a inscrição", nil)
		return
	}

	link := helpers.WhatsAppLink(h.Cfg.WhatsAppNumber, helpers.InscriptionMessage(req.FullName, courseName, req.Schedule))
	response.Success(c, http.StatusCreated, gin.H{
		"inscription_id": ins.ID,
		"whatsapp_url":   link,
	}, "inscrição recebida", nil)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// ContactLink builds the WhatsApp deep link for the contact form.
func (h *PublicHandler) ContactLink(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	link := helpers.WhatsAppLink(h.Cfg.WhatsAppNumber, helpers.ContactMessage(req.Name, req.Email, req.Subject, req.Body))
	response.Success(c, http.StatusOK, gin.H{"whatsapp_url": link}, "", nil)
}

// VocationalQuestions returns the test in presentation order.
func (h *PublicHandler) VocationalQuestions(c *gin.Context) {
	response.Success(c, http.StatusOK, vocational.Questions(), "", nil)
}

type vocationalSubmitRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

type vocationalResultView struct {
	vocational.Result
	SuggestedCourses []entity.Course `json:"suggested_courses"`
}

// SubmitVocational scores a full answer set, stores the result and
// suggests active courses in the recommended area. Anonymous visitors get
// a result without persistence linkage.
func (h *PublicHandler) SubmitVocational(c *gin.Context) {
	var req vocationalSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", validation.ToDetails(err))
		return
	}
	result, err := vocational.Score(req.Answers)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "respostas inválidas", nil)
		return
	}

	view := vocationalResultView{Result: result}
	if courses, err := h.Courses.List(true); err == nil {
		for _, course := range courses {
			if course.Area == result.RecommendedArea {
				view.SuggestedCourses = append(view.SuggestedCourses, course)
			}
		}
	}

	record := &entity.VocationalResult{
		ProfileID:       c.GetString(middleware.CtxProfileIDKey),
		Scores:          result.Scores,
		RecommendedArea: result.RecommendedArea,
	}
	if len(view.SuggestedCourses) > 0 {
		record.CourseID = view.SuggestedCourses[0].ID
	}
	if err := h.Vocational.Create(record); err != nil {
		h.Logger.WithError(err).Warn("failed to store vocational result")
	}

	response.Success(c, http.StatusOK, view, "", nil)
}
