package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/institutoavanca/portal-api/internal/container"
	handlers "github.com/institutoavanca/portal-api/internal/interface/http"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
)

// AdminModule mounts the staff back office under /api/admin. Every route
// requires an administrative role; individual screens are gated on the
// exact permission they represent, so a read-only permission such as
// "users_view" never opens a mutating route.
type AdminModule struct {
	Admin      *handlers.AdminHandler
	Catalog    *handlers.CatalogHandler
	Content    *handlers.ContentHandler
	Management *handlers.ManagementHandler
	JWT        *helpers.JWTManager
}

func NewAdmin(admin *handlers.AdminHandler, catalog *handlers.CatalogHandler, content *handlers.ContentHandler, mgmt *handlers.ManagementHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Admin: admin, Catalog: catalog, Content: content, Management: mgmt, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByAccountID(), nil))

	admin.GET("/announcements", m.Content.ListAnnouncements)

	// User management: viewing is users_view, anything mutating is users.
	usersView := admin.Group("/", middleware.RequirePermission("users_view"))
	{
		usersView.GET("/students", m.Admin.ListStudents)
		usersView.GET("/authorized-emails", m.Admin.ListAuthorizedEmails)
		usersView.GET("/inscriptions", m.Management.ListInscriptions)
	}
	users := admin.Group("/", middleware.RequirePermission("users"))
	{
		users.POST("/authorized-emails", m.Admin.AuthorizeEmail)
		users.DELETE("/authorized-emails/:id", m.Admin.RemoveAuthorizedEmail)
		users.PATCH("/inscriptions/:id", m.Management.UpdateInscriptionStatus)

		// Role administration lives behind the mutating permission even
		// for reads: the roster screen itself is a management screen.
		users.GET("/roles", m.Admin.Roles)
		users.GET("/admins", m.Admin.ListAdmins)
		users.POST("/admins", m.Admin.GrantRole)
		users.DELETE("/admins/:accountID", m.Admin.RevokeRole)

		users.GET("/courses/:id/enrollments", m.Management.CourseEnrollments)
		users.POST("/enrollments", m.Management.CreateEnrollment)
		users.PATCH("/enrollments/:id", m.Management.UpdateEnrollmentStatus)
		users.POST("/assessments", m.Management.CreateAssessment)
		users.PUT("/grades", m.Management.UpsertGrade)

		users.GET("/documents/pending", m.Management.PendingDocuments)
		users.POST("/documents/:id/file", m.Management.IssueDocument)
		users.PATCH("/documents/:id", m.Management.UpdateDocumentStatus)
	}

	financeView := admin.Group("/", middleware.RequirePermission("finance_view"))
	{
		financeView.GET("/payments", m.Management.ListPayments)
	}
	finance := admin.Group("/", middleware.RequirePermission("finance"))
	{
		finance.POST("/payments", m.Management.CreatePayment)
		finance.POST("/payments/:id/paid", m.Management.MarkPaymentPaid)
	}

	content := admin.Group("/", middleware.RequirePermission("content"))
	{
		content.POST("/announcements", m.Content.CreateAnnouncement)
		content.DELETE("/announcements/:id", m.Content.DeleteAnnouncement)

		content.GET("/blog", m.Content.ListAllPosts)
		content.POST("/blog", m.Content.CreatePost)
		content.PUT("/blog/:id", m.Content.UpdatePost)
		content.DELETE("/blog/:id", m.Content.DeletePost)

		content.POST("/courses", m.Catalog.CreateCourse)
		content.PUT("/courses/:id", m.Catalog.UpdateCourse)
		content.DELETE("/courses/:id", m.Catalog.DeleteCourse)
		content.POST("/courses/:id/disciplines", m.Catalog.CreateDiscipline)
		content.DELETE("/courses/:id/disciplines/:disciplineID", m.Catalog.DeleteDiscipline)
	}
}
