package router

import (
	"context"

	"github.com/institutoavanca/portal-api/internal/application"
	"github.com/institutoavanca/portal-api/internal/container"
	pginfra "github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	handlers "github.com/institutoavanca/portal-api/internal/interface/http"
	"github.com/institutoavanca/portal-api/internal/router/modules"
	"github.com/institutoavanca/portal-api/pkg/helpers"
)

// InitModules builds every repository, service and handler from the
// container singletons and registers the feature modules. Called once at
// startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	accounts := pginfra.NewAccountRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	authorized := pginfra.NewAuthorizedEmailRepository(pool)
	courses := pginfra.NewCourseRepository(pool)
	disciplines := pginfra.NewDisciplineRepository(pool)
	enrollments := pginfra.NewEnrollmentRepository(pool)
	assessments := pginfra.NewAssessmentRepository(pool)
	payments := pginfra.NewPaymentRepository(pool)
	documents := pginfra.NewDocumentRequestRepository(pool)
	announcements := pginfra.NewAnnouncementRepository(pool)
	blog := pginfra.NewBlogRepository(pool)
	inscriptions := pginfra.NewInscriptionRepository(pool)
	vocational := pginfra.NewVocationalRepository(pool)
	chats := pginfra.NewChatRepository(pool)

	search := &application.SearchService{
		ES:            container.GetES(),
		StudentsIndex: cfg.ESStudentsIndex,
		PostsIndex:    cfg.ESPostsIndex,
		Logger:        logger,
	}
	search.EnsureIndices(context.Background())
	authService := &application.AuthService{
		Accounts:    accounts,
		Profiles:    profiles,
		Roles:       roles,
		Authorized:  authorized,
		Enrollments: enrollments,
		Courses:     courses,
		JWT:         container.GetJWT(),
		Redis:       container.GetRedis(),
		Pub:         container.GetRabbitPub(),
		Logger:      logger,
		AppName:     cfg.AppName,
		MailEnabled: cfg.MailSendEnabled,
	}
	adminService := &application.AdminService{
		Accounts:   accounts,
		Profiles:   profiles,
		Roles:      roles,
		Authorized: authorized,
		Courses:    courses,
		Redis:      container.GetRedis(),
		Pub:        container.GetRabbitPub(),
		Logger:     logger,
		AppName:    cfg.AppName,
		SignupURL:  cfg.SignupURL,
	}

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	authHandler := &handlers.AuthHandler{
		Auth:     authService,
		Search:   search,
		Profiles: profiles,
		Cookies:  cookies,
		Logger:   logger,
	}
	adminHandler := &handlers.AdminHandler{
		Admin:    adminService,
		Search:   search,
		Profiles: profiles,
		Logger:   logger,
	}
	catalogHandler := &handlers.CatalogHandler{
		Courses:     courses,
		Disciplines: disciplines,
		Redis:       container.GetRedis(),
		Logger:      logger,
	}
	contentHandler := &handlers.ContentHandler{
		Announcements: announcements,
		Blog:          blog,
		Search:        search,
		Logger:        logger,
	}
	studentHandler := &handlers.StudentHandler{
		Cfg:         cfg,
		Profiles:    profiles,
		Enrollments: enrollments,
		Assessments: assessments,
		Payments:    payments,
		Documents:   documents,
		Courses:     courses,
		GCS:         container.GetGCS(),
		Search:      search,
		Logger:      logger,
	}
	managementHandler := &handlers.ManagementHandler{
		Cfg:          cfg,
		Payments:     payments,
		Documents:    documents,
		Enrollments:  enrollments,
		Assessments:  assessments,
		Profiles:     profiles,
		Inscriptions: inscriptions,
		GCS:          container.GetGCS(),
		Pub:          container.GetRabbitPub(),
		Logger:       logger,
	}
	publicHandler := &handlers.PublicHandler{
		Cfg:          cfg,
		Inscriptions: inscriptions,
		Vocational:   vocational,
		Courses:      courses,
		Logger:       logger,
	}
	chatHandler := handlers.NewChatHandler(cfg, chats, logger)

	jwt := container.GetJWT()
	r.Add(
		modules.NewAuth(authHandler, jwt),
		modules.NewPortal(catalogHandler, contentHandler, publicHandler),
		modules.NewChat(chatHandler, jwt),
		modules.NewStudent(studentHandler, contentHandler, jwt),
		modules.NewAdmin(adminHandler, catalogHandler, contentHandler, managementHandler, jwt),
	)
}
