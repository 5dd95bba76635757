package application

import (
	"context"
	"errors"
	"testing"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/rbac"
)

func newTestAdminService() (*AdminService, *fakeRoles) {
	roles := &fakeRoles{byAccount: map[string]*entity.RoleAssignment{}}
	svc := &AdminService{
		Profiles: &fakeProfiles{byID: map[string]*entity.Profile{}},
		Roles:    roles,
	}
	return svc, roles
}

func TestGrantRoleUnknownRole(t *testing.T) {
	svc, _ := newTestAdminService()
	err := svc.GrantRole(context.Background(), "actor", rbac.RoleDirectorGeral, "target", rbac.Role("porteiro"))
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("err = %v, want ErrUnknownRole", err)
	}
}

func TestGrantRoleHierarchy(t *testing.T) {
	tests := []struct {
		name      string
		actorRole rbac.Role
		current   rbac.Role
		grant     rbac.Role
		wantErr   error
	}{
		{"top level grants top level", rbac.RoleDirectorGeral, "", rbac.RoleAdmin, nil},
		{"top level replaces peer", rbac.RoleAdmin, rbac.RoleDirectorGeral, rbac.RoleAssistente, nil},
		{"mid level grants below", rbac.RoleSubDirector, "", rbac.RoleChefeDepartamento, nil},
		{"mid level cannot mint top level", rbac.RoleSubDirector, "", rbac.RoleDirectorGeral, ErrForbidden},
		{"mid level cannot touch top level holder", rbac.RoleSubDirector, rbac.RoleAdmin, rbac.RoleAssistente, ErrForbidden},
		{"mid level cannot grant own level", rbac.RoleSubDirector, "", rbac.RoleSubDirector, ErrForbidden},
		{"bottom level cannot grant", rbac.RoleAssistente, "", rbac.RoleAssistente, ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, roles := newTestAdminService()
			if tc.current != "" {
				roles.byAccount["target"] = &entity.RoleAssignment{AccountID: "target", Role: string(tc.current)}
			}
			err := svc.GrantRole(context.Background(), "actor", tc.actorRole, "target", tc.grant)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil {
				if got := roles.byAccount["target"].Role; got != string(tc.grant) {
					t.Errorf("stored role = %q, want %q", got, tc.grant)
				}
			}
		})
	}
}

func TestGrantRoleSelfRefused(t *testing.T) {
	svc, _ := newTestAdminService()
	err := svc.GrantRole(context.Background(), "actor", rbac.RoleDirectorGeral, "actor", rbac.RoleAdmin)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("self grant err = %v, want ErrForbidden", err)
	}
}

func TestRevokeRoleSelfRefused(t *testing.T) {
	svc, roles := newTestAdminService()
	roles.byAccount["actor"] = &entity.RoleAssignment{AccountID: "actor", Role: string(rbac.RoleDirectorGeral)}
	err := svc.RevokeRole(context.Background(), "actor", rbac.RoleDirectorGeral, "actor")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("self revoke err = %v, want ErrForbidden", err)
	}
	if _, ok := roles.byAccount["actor"]; !ok {
		t.Error("role must not be removed on refused revoke")
	}
}

func TestRevokeRoleHierarchy(t *testing.T) {
	svc, roles := newTestAdminService()
	roles.byAccount["chefe"] = &entity.RoleAssignment{AccountID: "chefe", Role: string(rbac.RoleChefeDepartamento)}

	if err := svc.RevokeRole(context.Background(), "actor", rbac.RoleSubDirector, "chefe"); err != nil {
		t.Fatalf("revoke below own level: %v", err)
	}
	if _, ok := roles.byAccount["chefe"]; ok {
		t.Error("role still assigned after revoke")
	}
}

func TestAuthorizeEmailDuplicate(t *testing.T) {
	authorized := &fakeAuthorized{byEmail: map[string]*entity.AuthorizedEmail{}}
	svc := &AdminService{Authorized: authorized}

	if err := svc.AuthorizeEmail(context.Background(), &entity.AuthorizedEmail{Email: "Aluno@Example.com "}); err != nil {
		t.Fatalf("first authorize: %v", err)
	}
	err := svc.AuthorizeEmail(context.Background(), &entity.AuthorizedEmail{Email: "aluno@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}
