package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/institutoavanca/portal-api/internal/container"
	handlers "github.com/institutoavanca/portal-api/internal/interface/http"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
)

// StudentModule is the signed-in student's own area under /api/me.
type StudentModule struct {
	Handler *handlers.StudentHandler
	Content *handlers.ContentHandler
	JWT     *helpers.JWTManager
}

func NewStudent(h *handlers.StudentHandler, content *handlers.ContentHandler, jwt *helpers.JWTManager) *StudentModule {
	return &StudentModule{Handler: h, Content: content, JWT: jwt}
}

func (m *StudentModule) Register(rg *gin.RouterGroup) {
	me := rg.Group("/me")
	me.Use(middleware.Auth(container.GetRedis(), m.JWT))
	me.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccountID(), nil))
	{
		me.PUT("/profile", m.Handler.UpdateProfile)
		me.POST("/avatar", m.Handler.UploadAvatar)
		me.GET("/enrollments", m.Handler.MyEnrollments)
		me.GET("/grades", m.Handler.MyGrades)
		me.GET("/payments", m.Handler.MyPayments)
		me.GET("/documents", m.Handler.MyDocuments)
		me.POST("/documents", m.Handler.RequestDocument)
		me.GET("/announcements", m.Content.ListAnnouncements)
	}
}
