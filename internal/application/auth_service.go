package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/rbac"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/mailer"
	tpl "github.com/institutoavanca/portal-api/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")

	// ErrEmailNotAuthorized covers both "never authorized" and "already
	// registered"; the two cases are deliberately indistinguishable so a
	// caller cannot probe which emails have been used.
	ErrEmailNotAuthorized = errors.New("email not authorized")
)

const sessionTTL = 24 * time.Hour

// AuthService implements signup (gated by authorized emails), login and
// session management.
type AuthService struct {
	Accounts    repo.AccountRepository
	Profiles    repo.ProfileRepository
	Roles       repo.RoleRepository
	Authorized  repo.AuthorizedEmailRepository
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	AppName     string
	MailEnabled bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// NormalizeEmail trims whitespace and lowercases; every email comparison
// in the signup gate goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sessionKey(accountID string) string {
	return "user:session:" + accountID
}

// SignUp creates an account for a pre-authorized email. Eligibility is
// checked before anything is written; once the account exists, the
// remaining steps (profile, registered stamp, pre-assigned enrollment)
// are sequential writes with no compensating rollback. A partial failure
// leaves the account in place and is only logged.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*entity.Profile, error) {
	email = NormalizeEmail(email)

	entry, err := s.Authorized.GetByEmail(email)
	if err != nil || entry == nil || !entry.Eligible() {
		return nil, ErrEmailNotAuthorized
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	account := &entity.Account{Email: email, Password: hash}
	if err := s.Accounts.Create(account); err != nil {
		return nil, err
	}

	fullName := entry.FullName
	if fullName == "" {
		fullName = email
	}
	profile := &entity.Profile{
		AccountID:     account.ID,
		FullName:      fullName,
		Email:         email,
		StudentNumber: entry.StudentNumber,
	}
	if err := s.Profiles.Create(profile); err != nil {
		s.warn("profile creation failed after account creation", err, logrus.Fields{"account_id": account.ID})
		return nil, err
	}

	if err := s.Authorized.MarkRegistered(entry.ID, time.Now()); err != nil {
		s.warn("failed to stamp authorized email", err, logrus.Fields{"email": email})
	}

	if entry.CourseID != "" {
		enrollment := &entity.Enrollment{ProfileID: profile.ID, CourseID: entry.CourseID, Status: entity.EnrollmentActive}
		if err := s.Enrollments.Create(enrollment); err != nil {
			s.warn("pre-assigned enrollment failed", err, logrus.Fields{"profile_id": profile.ID, "course_id": entry.CourseID})
		} else {
			s.sendEnrollmentConfirmation(ctx, profile, entry.CourseID)
		}
	}

	return profile, nil
}

func (s *AuthService) sendEnrollmentConfirmation(ctx context.Context, p *entity.Profile, courseID string) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	courseName := courseID
	if s.Courses != nil {
		if course, err := s.Courses.GetByID(courseID); err == nil {
			courseName = course.Name
		}
	}
	job := mailer.EmailJob{
		To:       p.Email,
		Template: tpl.EnrollmentConfirmation,
		Data: map[string]any{
			"FullName":    p.FullName,
			"Course":      courseName,
			"Institution": s.AppName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.warn("failed to enqueue enrollment confirmation", err, nil)
	}
}

// Authenticate validates email/password and returns the account.
func (s *AuthService) Authenticate(email, password string) (*entity.Account, error) {
	a, err := s.Accounts.GetByEmail(NormalizeEmail(email))
	if err != nil || a == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(a.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// Session is what login resolves: account, profile and role in one place,
// fanned out to views instead of each screen re-fetching it.
type Session struct {
	AccountID string
	ProfileID string
	Email     string
	FullName  string
	Role      rbac.Role
	RoleLabel string
}

// Login authenticates and issues a token pair, recording the session in
// Redis with the role resolved at login time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, TokenPair, error) {
	a, err := s.Authenticate(email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	sess := &Session{AccountID: a.ID, Email: a.Email}
	if p, err := s.Profiles.GetByAccountID(a.ID); err == nil && p != nil {
		sess.ProfileID = p.ID
		sess.FullName = p.FullName
	}
	if ra, err := s.Roles.Get(a.ID); err == nil && ra != nil {
		sess.Role = rbac.Role(ra.Role)
	}
	sess.RoleLabel = rbac.AdminLabel(sess.Role)

	pair, err := s.issueTokens(ctx, sess)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return sess, pair, nil
}

func (s *AuthService) issueTokens(ctx context.Context, sess *Session) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(sess.AccountID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(sess.AccountID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(sess.AccountID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"account_id": sess.AccountID,
			"profile_id": sess.ProfileID,
			"email":      sess.Email,
			"name":       sess.FullName,
			"role":       string(sess.Role),
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.warn("redis session pipeline failed", err, logrus.Fields{"key": key})
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and token pair after validating the
// refresh token against the live session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, sessionKey(claims.AccountID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
		sess := &Session{
			AccountID: data["account_id"],
			ProfileID: data["profile_id"],
			Email:     data["email"],
			FullName:  data["name"],
			Role:      rbac.Role(data["role"]),
		}
		return s.issueTokens(ctx, sess)
	}

	a, err := s.Accounts.GetByID(claims.AccountID)
	if err != nil || a == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, &Session{AccountID: a.ID, Email: a.Email})
}

// Logout drops the session; the handler clears cookies.
func (s *AuthService) Logout(ctx context.Context, accountID string) {
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(accountID)).Err(); err != nil {
			s.warn("failed to delete session", err, logrus.Fields{"account_id": accountID})
		}
	}
}

func (s *AuthService) warn(msg string, err error, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	s.Logger.WithError(err).WithFields(fields).Warn(msg)
}
