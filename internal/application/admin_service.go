package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/rbac"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/mailer"
	tpl "github.com/institutoavanca/portal-api/pkg/mailer/templates"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrUnknownRole = errors.New("unknown role")
	ErrDuplicate   = errors.New("already exists")
)

// AdminService covers the staff-only surface: role grants, the authorized
// email list, and the admin roster.
type AdminService struct {
	Accounts   repo.AccountRepository
	Profiles   repo.ProfileRepository
	Roles      repo.RoleRepository
	Authorized repo.AuthorizedEmailRepository
	Courses    repo.CourseRepository
	Redis      *redis.Client
	Pub        *helpers.RabbitPublisher
	Logger     *logrus.Logger
	AppName    string
	SignupURL  string
}

// Admin is one row of the admin roster.
type Admin struct {
	AccountID string    `json:"account_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      rbac.Role `json:"role"`
	RoleLabel string    `json:"role_label"`
	Level     int       `json:"level"`
	GrantedAt time.Time `json:"granted_at"`
}

// ListAdmins returns every account holding a role, with profile data joined.
func (s *AdminService) ListAdmins() ([]Admin, error) {
	assignments, err := s.Roles.ListAssignments()
	if err != nil {
		return nil, err
	}
	out := make([]Admin, 0, len(assignments))
	for _, ra := range assignments {
		role := rbac.Role(ra.Role)
		a := Admin{
			AccountID: ra.AccountID,
			Role:      role,
			RoleLabel: rbac.AdminLabel(role),
			Level:     rbac.AdminLevel(role),
			GrantedAt: ra.GrantedAt,
		}
		if p, err := s.Profiles.GetByAccountID(ra.AccountID); err == nil && p != nil {
			a.FullName = p.FullName
			a.Email = p.Email
		}
		out = append(out, a)
	}
	return out, nil
}

// GrantRole assigns role to the target account. The actor must be able to
// manage both the target's current role and the role being granted, so a
// level-3 actor can neither touch a level-4 admin nor mint one.
func (s *AdminService) GrantRole(ctx context.Context, actorID string, actorRole rbac.Role, targetID string, role rbac.Role) error {
	if !rbac.IsAdminRole(role) {
		return ErrUnknownRole
	}
	current := rbac.Role("")
	if ra, err := s.Roles.Get(targetID); err == nil && ra != nil {
		current = rbac.Role(ra.Role)
	}
	if !rbac.CanManageRole(actorID, actorRole, targetID, current) ||
		!rbac.CanManageRole(actorID, actorRole, targetID, role) {
		return ErrForbidden
	}
	if err := s.Roles.Assign(&entity.RoleAssignment{AccountID: targetID, Role: string(role), GrantedBy: actorID}); err != nil {
		return err
	}
	s.refreshSessionRole(ctx, targetID, string(role))
	return nil
}

// RevokeRole removes the target's role. Self-revocation is refused by the
// same rule as every other self-management attempt.
func (s *AdminService) RevokeRole(ctx context.Context, actorID string, actorRole rbac.Role, targetID string) error {
	ra, err := s.Roles.Get(targetID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return postgres.ErrNotFound
		}
		return err
	}
	if !rbac.CanManageRole(actorID, actorRole, targetID, rbac.Role(ra.Role)) {
		return ErrForbidden
	}
	if err := s.Roles.Revoke(targetID); err != nil {
		return err
	}
	s.refreshSessionRole(ctx, targetID, "")
	return nil
}

// refreshSessionRole updates a live session so role changes bite without
// waiting for re-login.
func (s *AdminService) refreshSessionRole(ctx context.Context, accountID, role string) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(accountID)
	exists, err := s.Redis.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	if err := s.Redis.HSet(ctx, key, "role", role).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("failed to refresh session role")
	}
}

// AuthorizeEmail adds an email to the signup allowlist and queues the
// invitation. A pre-assigned course becomes an automatic enrollment when
// the person registers.
func (s *AdminService) AuthorizeEmail(ctx context.Context, e *entity.AuthorizedEmail) error {
	e.Email = NormalizeEmail(e.Email)
	if existing, err := s.Authorized.GetByEmail(e.Email); err == nil && existing != nil {
		return ErrDuplicate
	}
	if err := s.Authorized.Create(e); err != nil {
		return err
	}
	s.sendInvitation(ctx, e)
	return nil
}

func (s *AdminService) sendInvitation(ctx context.Context, e *entity.AuthorizedEmail) {
	if s.Pub == nil {
		return
	}
	courseName := ""
	if e.CourseID != "" && s.Courses != nil {
		if c, err := s.Courses.GetByID(e.CourseID); err == nil {
			courseName = c.Name
		}
	}
	job := mailer.EmailJob{
		To:       e.Email,
		Template: tpl.Invitation,
		Data: map[string]any{
			"FullName":    e.FullName,
			"Course":      courseName,
			"Institution": s.AppName,
			"SignupURL":   s.SignupURL,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", e.Email).Warn("failed to enqueue invitation")
	}
}

// ListAuthorizedEmails returns the full allowlist, consumed and pending.
func (s *AdminService) ListAuthorizedEmails() ([]entity.AuthorizedEmail, error) {
	return s.Authorized.List()
}

// RemoveAuthorizedEmail drops an allowlist entry. Removing a consumed entry
// does not affect the account it produced.
func (s *AdminService) RemoveAuthorizedEmail(id string) error {
	return s.Authorized.Delete(id)
}
