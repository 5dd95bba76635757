// Seed creates a first director_geral account, a starter course catalog
// and one authorized email, so a fresh deployment is usable immediately.
// Idempotent: existing rows are left alone.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/institutoavanca/portal-api/config"
	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/rbac"
	pginfra "github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	"github.com/institutoavanca/portal-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	pool, err := pginfra.NewPool(context.Background(), cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	accounts := pginfra.NewAccountRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	courses := pginfra.NewCourseRepository(pool)
	authorized := pginfra.NewAuthorizedEmailRepository(pool)

	adminEmail := getenvDefault("SEED_ADMIN_EMAIL", "direcao@institutoavanca.pt")
	adminPass := getenvDefault("SEED_ADMIN_PASSWORD", "mudar-esta-password")

	account, err := accounts.GetByEmail(adminEmail)
	if err != nil {
		hash, err := helpers.HashPassword(adminPass)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		account = &entity.Account{Email: adminEmail, Password: hash}
		if err := accounts.Create(account); err != nil {
			log.Fatalf("create admin account: %v", err)
		}
		if err := profiles.Create(&entity.Profile{
			AccountID: account.ID,
			FullName:  "Direcção Geral",
			Email:     adminEmail,
		}); err != nil {
			log.Fatalf("create admin profile: %v", err)
		}
		logger.Infof("created admin account %s", adminEmail)
	}

	if _, err := roles.Get(account.ID); err != nil {
		if err := roles.Assign(&entity.RoleAssignment{
			AccountID: account.ID,
			Role:      string(rbac.RoleDirectorGeral),
			GrantedBy: account.ID,
		}); err != nil {
			log.Fatalf("assign director role: %v", err)
		}
		logger.Info("assigned director_geral role")
	}

	for _, c := range starterCourses() {
		if _, err := courses.GetBySlug(c.Slug); err == nil {
			continue
		}
		if err := courses.Create(&c); err != nil {
			logger.WithError(err).Warnf("seed course %s failed", c.Slug)
			continue
		}
		logger.Infof("seeded course %s", c.Slug)
	}

	demoEmail := getenvDefault("SEED_STUDENT_EMAIL", "")
	if demoEmail != "" {
		if _, err := authorized.GetByEmail(demoEmail); err != nil {
			if err := authorized.Create(&entity.AuthorizedEmail{
				Email:        demoEmail,
				FullName:     "Aluno de Demonstração",
				AuthorizedBy: account.ID,
			}); err != nil {
				logger.WithError(err).Warn("seed authorized email failed")
			} else {
				logger.Infof("authorized %s for signup", demoEmail)
			}
		}
	}

	logger.Info("seed complete")
}

func starterCourses() []entity.Course {
	return []entity.Course{
		{
			Name: "Técnico de Informática", Slug: "tecnico-informatica",
			Description:   "Redes, sistemas e programação para o mercado de trabalho.",
			Area:          "tecnologia",
			DurationHours: 1200, PriceCents: 185000, Active: true,
		},
		{
			Name: "Auxiliar de Saúde", Slug: "auxiliar-saude",
			Description:   "Apoio a cuidados de saúde em contexto hospitalar e domiciliário.",
			Area:          "saude",
			DurationHours: 1000, PriceCents: 165000, Active: true,
		},
		{
			Name: "Gestão e Contabilidade", Slug: "gestao-contabilidade",
			Description:   "Gestão de pequenos negócios, contabilidade e fiscalidade.",
			Area:          "gestao",
			DurationHours: 900, PriceCents: 155000, Active: true,
		},
		{
			Name: "Design Digital", Slug: "design-digital",
			Description:   "Design gráfico, edição de imagem e conteúdos para redes sociais.",
			Area:          "design",
			DurationHours: 800, PriceCents: 145000, Active: true,
		},
		{
			Name: "Acção Educativa", Slug: "accao-educativa",
			Description:   "Apoio educativo a crianças em creches e centros de estudo.",
			Area:          "educacao",
			DurationHours: 1000, PriceCents: 150000, Active: true,
		},
	}
}

func getenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
