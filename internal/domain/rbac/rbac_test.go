package rbac

import "testing"

func TestIsAdminRole(t *testing.T) {
	for _, r := range []Role{RoleDirectorGeral, RoleAdmin, RoleSubDirector, RoleChefeDepartamento, RoleAssistente} {
		if !IsAdminRole(r) {
			t.Errorf("IsAdminRole(%q) = false, want true", r)
		}
	}
	for _, r := range []Role{"", "bogus", "Admin", "director geral"} {
		if IsAdminRole(r) {
			t.Errorf("IsAdminRole(%q) = true, want false", r)
		}
	}
}

func TestAdminLabel(t *testing.T) {
	cases := map[Role]string{
		RoleDirectorGeral:     "Director Geral",
		RoleAdmin:             "Administrador",
		RoleSubDirector:       "Sub-Director",
		RoleChefeDepartamento: "Chefe de Departamento",
		RoleAssistente:        "Assistente",
		"":                    FallbackLabel,
		"bogus":               FallbackLabel,
	}
	for role, want := range cases {
		if got := AdminLabel(role); got != want {
			t.Errorf("AdminLabel(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestAdminLevelOrdering(t *testing.T) {
	if !(AdminLevel(RoleDirectorGeral) > AdminLevel(RoleSubDirector) &&
		AdminLevel(RoleSubDirector) > AdminLevel(RoleChefeDepartamento) &&
		AdminLevel(RoleChefeDepartamento) > AdminLevel(RoleAssistente) &&
		AdminLevel(RoleAssistente) > AdminLevel("")) {
		t.Error("hierarchy levels are not strictly decreasing")
	}
	if AdminLevel("") != 0 {
		t.Errorf("AdminLevel(\"\") = %d, want 0", AdminLevel(""))
	}
	if AdminLevel(RoleAdmin) != AdminLevel(RoleDirectorGeral) {
		t.Error("admin and director_geral must share the top level")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role Role
		perm string
		want bool
	}{
		// wildcard covers permissions not enumerated anywhere
		{RoleDirectorGeral, "anything_not_listed", true},
		{RoleAdmin, "export_pdf", true},
		{RoleDirectorGeral, "delete", true},

		// exact string matching, no implied read/write relationship
		{RoleSubDirector, "users", true},
		{RoleSubDirector, "delete", false},
		{RoleChefeDepartamento, "users_view", true},
		{RoleChefeDepartamento, "users", false},
		{RoleChefeDepartamento, "content", true},
		{RoleAssistente, "content_view", true},
		{RoleAssistente, "content", false},
		{RoleAssistente, "finance", false},

		// unrecognized roles never pass, even for real permissions
		{"", "users", false},
		{"bogus", "all", false},
	}
	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.perm); got != tt.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestCanAccessFeature(t *testing.T) {
	if !CanAccessFeature(RoleSubDirector, 3) {
		t.Error("level 3 role must access level-3 features")
	}
	if CanAccessFeature(RoleSubDirector, 4) {
		t.Error("level 3 role must not access level-4 features")
	}
	if CanAccessFeature("", 1) {
		t.Error("absent role must not access any leveled feature")
	}
	if !CanAccessFeature("", 0) {
		t.Error("level-0 features are open to everyone")
	}
}

func TestCanManageRole(t *testing.T) {
	tests := []struct {
		name       string
		actorID    string
		actorRole  Role
		targetID   string
		targetRole Role
		want       bool
	}{
		{"level 3 manages level 2", "a", RoleSubDirector, "b", RoleChefeDepartamento, true},
		{"level 3 manages level 1", "a", RoleSubDirector, "b", RoleAssistente, true},
		{"level 3 cannot manage level 3", "a", RoleSubDirector, "b", RoleSubDirector, false},
		{"level 3 cannot manage level 4", "a", RoleSubDirector, "b", RoleDirectorGeral, false},
		{"level 4 manages level 4 peer", "a", RoleDirectorGeral, "b", RoleAdmin, true},
		{"level 4 manages everyone below", "a", RoleAdmin, "b", RoleAssistente, true},
		{"level 4 never manages self", "a", RoleDirectorGeral, "a", RoleDirectorGeral, false},
		{"level 3 never manages self", "a", RoleSubDirector, "a", RoleSubDirector, false},
		{"non-admin manages nobody", "a", "", "b", RoleAssistente, false},
		{"non-admin target is manageable", "a", RoleAssistente, "b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanManageRole(tt.actorID, tt.actorRole, tt.targetID, tt.targetRole)
			if got != tt.want {
				t.Errorf("CanManageRole(%q,%q,%q,%q) = %v, want %v",
					tt.actorID, tt.actorRole, tt.targetID, tt.targetRole, got, tt.want)
			}
		})
	}
}
