package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/infrastructure/postgres"
	"github.com/institutoavanca/portal-api/pkg/helpers"
)

type fakeAccounts struct {
	byEmail map[string]*entity.Account
}

func (f *fakeAccounts) Create(a *entity.Account) error {
	a.ID = uuid.NewString()
	f.byEmail[a.Email] = a
	return nil
}
func (f *fakeAccounts) GetByID(id string) (*entity.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, postgres.ErrNotFound
}
func (f *fakeAccounts) GetByEmail(email string) (*entity.Account, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, postgres.ErrNotFound
}
func (f *fakeAccounts) UpdatePassword(id, hash string) error { return nil }

type fakeProfiles struct {
	byID      map[string]*entity.Profile
	createErr error
}

func (f *fakeProfiles) Create(p *entity.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uuid.NewString()
	f.byID[p.ID] = p
	return nil
}
func (f *fakeProfiles) GetByID(id string) (*entity.Profile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, postgres.ErrNotFound
}
func (f *fakeProfiles) GetByAccountID(accountID string) (*entity.Profile, error) {
	for _, p := range f.byID {
		if p.AccountID == accountID {
			return p, nil
		}
	}
	return nil, postgres.ErrNotFound
}
func (f *fakeProfiles) Update(p *entity.Profile) error            { return nil }
func (f *fakeProfiles) List(_, _ int) ([]entity.Profile, error)   { return nil, nil }

type fakeRoles struct {
	byAccount map[string]*entity.RoleAssignment
}

func (f *fakeRoles) Get(accountID string) (*entity.RoleAssignment, error) {
	if ra, ok := f.byAccount[accountID]; ok {
		return ra, nil
	}
	return nil, postgres.ErrNotFound
}
func (f *fakeRoles) Assign(ra *entity.RoleAssignment) error {
	f.byAccount[ra.AccountID] = ra
	return nil
}
func (f *fakeRoles) Revoke(accountID string) error {
	if _, ok := f.byAccount[accountID]; !ok {
		return postgres.ErrNotFound
	}
	delete(f.byAccount, accountID)
	return nil
}
func (f *fakeRoles) ListAssignments() ([]entity.RoleAssignment, error) {
	out := make([]entity.RoleAssignment, 0, len(f.byAccount))
	for _, ra := range f.byAccount {
		out = append(out, *ra)
	}
	return out, nil
}

type fakeAuthorized struct {
	byEmail map[string]*entity.AuthorizedEmail
}

func (f *fakeAuthorized) Create(e *entity.AuthorizedEmail) error {
	e.ID = uuid.NewString()
	f.byEmail[e.Email] = e
	return nil
}
func (f *fakeAuthorized) GetByEmail(email string) (*entity.AuthorizedEmail, error) {
	if e, ok := f.byEmail[email]; ok {
		return e, nil
	}
	return nil, postgres.ErrNotFound
}
func (f *fakeAuthorized) MarkRegistered(id string, at time.Time) error {
	for _, e := range f.byEmail {
		if e.ID == id && e.RegisteredAt == nil {
			e.RegisteredAt = &at
			return nil
		}
	}
	return postgres.ErrNotFound
}
func (f *fakeAuthorized) List() ([]entity.AuthorizedEmail, error) { return nil, nil }
func (f *fakeAuthorized) Delete(id string) error                  { return nil }

type fakeEnrollments struct {
	created []*entity.Enrollment
}

func (f *fakeEnrollments) Create(e *entity.Enrollment) error {
	e.ID = uuid.NewString()
	f.created = append(f.created, e)
	return nil
}
func (f *fakeEnrollments) GetByID(id string) (*entity.Enrollment, error)   { return nil, postgres.ErrNotFound }
func (f *fakeEnrollments) UpdateStatus(id, status string) error            { return nil }
func (f *fakeEnrollments) ListByProfile(string) ([]entity.Enrollment, error) { return nil, nil }
func (f *fakeEnrollments) ListByCourse(string) ([]entity.Enrollment, error)  { return nil, nil }

func newTestAuthService() (*AuthService, *fakeAccounts, *fakeProfiles, *fakeAuthorized, *fakeEnrollments) {
	accounts := &fakeAccounts{byEmail: map[string]*entity.Account{}}
	profiles := &fakeProfiles{byID: map[string]*entity.Profile{}}
	roles := &fakeRoles{byAccount: map[string]*entity.RoleAssignment{}}
	authorized := &fakeAuthorized{byEmail: map[string]*entity.AuthorizedEmail{}}
	enrollments := &fakeEnrollments{}
	svc := &AuthService{
		Accounts:    accounts,
		Profiles:    profiles,
		Roles:       roles,
		Authorized:  authorized,
		Enrollments: enrollments,
		JWT:         helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour),
	}
	return svc, accounts, profiles, authorized, enrollments
}

func TestSignUpRejectsUnknownEmail(t *testing.T) {
	svc, accounts, _, _, _ := newTestAuthService()
	_, err := svc.SignUp(context.Background(), "desconhecido@example.com", "password123")
	if !errors.Is(err, ErrEmailNotAuthorized) {
		t.Fatalf("err = %v, want ErrEmailNotAuthorized", err)
	}
	if len(accounts.byEmail) != 0 {
		t.Error("no account may be created for an unauthorized email")
	}
}

func TestSignUpRejectsConsumedEmail(t *testing.T) {
	svc, _, _, authorized, _ := newTestAuthService()
	used := time.Now()
	_ = authorized.Create(&entity.AuthorizedEmail{Email: "usado@example.com", RegisteredAt: nil})
	authorized.byEmail["usado@example.com"].RegisteredAt = &used

	_, err := svc.SignUp(context.Background(), "usado@example.com", "password123")
	if !errors.Is(err, ErrEmailNotAuthorized) {
		t.Fatalf("err = %v, want ErrEmailNotAuthorized", err)
	}
}

func TestSignUpIndistinguishableRejections(t *testing.T) {
	svc, _, _, authorized, _ := newTestAuthService()
	used := time.Now()
	_ = authorized.Create(&entity.AuthorizedEmail{Email: "usado@example.com"})
	authorized.byEmail["usado@example.com"].RegisteredAt = &used

	_, errNever := svc.SignUp(context.Background(), "nunca@example.com", "password123")
	_, errUsed := svc.SignUp(context.Background(), "usado@example.com", "password123")
	if errNever == nil || errUsed == nil || errNever.Error() != errUsed.Error() {
		t.Errorf("rejections must be identical: %v vs %v", errNever, errUsed)
	}
}

func TestSignUpNormalizesEmail(t *testing.T) {
	svc, accounts, _, authorized, _ := newTestAuthService()
	_ = authorized.Create(&entity.AuthorizedEmail{Email: "aluno@example.com", FullName: "Ana Silva"})

	p, err := svc.SignUp(context.Background(), "  ALUNO@Example.COM  ", "password123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, ok := accounts.byEmail["aluno@example.com"]; !ok {
		t.Error("account not stored under normalized email")
	}
	if p.FullName != "Ana Silva" {
		t.Errorf("profile name = %q, want pre-authorized name", p.FullName)
	}
	if authorized.byEmail["aluno@example.com"].RegisteredAt == nil {
		t.Error("authorized entry not stamped after signup")
	}
}

func TestSignUpIsSingleUse(t *testing.T) {
	svc, _, _, authorized, _ := newTestAuthService()
	_ = authorized.Create(&entity.AuthorizedEmail{Email: "aluno@example.com", FullName: "Ana Silva"})

	if _, err := svc.SignUp(context.Background(), "aluno@example.com", "password123"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "aluno@example.com", "password123"); !errors.Is(err, ErrEmailNotAuthorized) {
		t.Fatalf("second signup err = %v, want ErrEmailNotAuthorized", err)
	}
}

func TestSignUpCreatesPreAssignedEnrollment(t *testing.T) {
	svc, _, _, authorized, enrollments := newTestAuthService()
	_ = authorized.Create(&entity.AuthorizedEmail{
		Email:    "aluno@example.com",
		FullName: "Ana Silva",
		CourseID: "course-1",
	})

	p, err := svc.SignUp(context.Background(), "aluno@example.com", "password123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if len(enrollments.created) != 1 {
		t.Fatalf("enrollments created = %d, want 1", len(enrollments.created))
	}
	e := enrollments.created[0]
	if e.ProfileID != p.ID || e.CourseID != "course-1" || e.Status != entity.EnrollmentActive {
		t.Errorf("unexpected enrollment: %+v", e)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, authorized, _ := newTestAuthService()
	_ = authorized.Create(&entity.AuthorizedEmail{Email: "aluno@example.com", FullName: "Ana Silva"})
	if _, err := svc.SignUp(context.Background(), "aluno@example.com", "password123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "aluno@example.com", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, _, authorized, _ := newTestAuthService()
	_ = authorized.Create(&entity.AuthorizedEmail{Email: "aluno@example.com", FullName: "Ana Silva"})
	if _, err := svc.SignUp(context.Background(), "aluno@example.com", "password123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	sess, pair, err := svc.Login(context.Background(), "Aluno@Example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.FullName != "Ana Silva" {
		t.Errorf("session name = %q", sess.FullName)
	}
	if sess.RoleLabel != "Utilizador" {
		t.Errorf("role label = %q, want fallback label", sess.RoleLabel)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected both tokens")
	}
	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.AccountID != sess.AccountID {
		t.Errorf("token account = %q, want %q", claims.AccountID, sess.AccountID)
	}
}
