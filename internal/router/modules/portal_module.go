package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/institutoavanca/portal-api/internal/container"
	handlers "github.com/institutoavanca/portal-api/internal/interface/http"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
)

// PortalModule is the anonymous marketing surface: catalog, blog,
// pre-enrollments, contact links and the vocational test.
type PortalModule struct {
	Catalog *handlers.CatalogHandler
	Content *handlers.ContentHandler
	Public  *handlers.PublicHandler
}

func NewPortal(catalog *handlers.CatalogHandler, content *handlers.ContentHandler, public *handlers.PublicHandler) *PortalModule {
	return &PortalModule{Catalog: catalog, Content: content, Public: public}
}

func (m *PortalModule) Register(rg *gin.RouterGroup) {
	formLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/courses", m.Catalog.ListCourses)
	rg.GET("/courses/:slug", m.Catalog.GetCourse)

	rg.GET("/blog", m.Content.ListPosts)
	rg.GET("/blog/:slug", m.Content.GetPost)

	rg.POST("/inscriptions", formLimiter, m.Public.SubmitInscription)
	rg.POST("/contact", formLimiter, m.Public.ContactLink)

	rg.GET("/vocational/questions", m.Public.VocationalQuestions)
	rg.POST("/vocational", formLimiter, m.Public.SubmitVocational)
}
