package rbac

// Role is an administrative role identifier. A regular student has no role
// assignment at all, which every function here treats as "no access".
type Role string

const (
	RoleDirectorGeral     Role = "director_geral"
	RoleAdmin             Role = "admin"
	RoleSubDirector       Role = "sub_director"
	RoleChefeDepartamento Role = "chefe_departamento"
	RoleAssistente        Role = "assistente"
)

// PermAll is the wildcard permission: a role holding it is authorized for
// every named permission, enumerated or not. Checked in HasPermission only.
const PermAll = "all"

// MaxLevel is the top of the hierarchy; a MaxLevel actor may manage any
// other admin, including peers at the same level.
const MaxLevel = 4

// FallbackLabel is returned for unrecognized or absent roles.
const FallbackLabel = "Utilizador"

// Definition describes a role: display label, hierarchy level, and the
// permission strings it carries.
type Definition struct {
	Label       string
	Level       int
	Permissions []string
}

// roles is the static role table. It is the single source of truth for
// admin authorization and must not be mutated at runtime.
var roles = map[Role]Definition{
	RoleDirectorGeral: {
		Label:       "Director Geral",
		Level:       4,
		Permissions: []string{PermAll, "users", "finance", "content", "settings", "reports", "delete"},
	},
	RoleAdmin: {
		Label:       "Administrador",
		Level:       4,
		Permissions: []string{PermAll, "users", "finance", "content", "settings", "reports", "delete"},
	},
	RoleSubDirector: {
		Label:       "Sub-Director",
		Level:       3,
		Permissions: []string{"users", "finance", "content", "settings", "reports"},
	},
	RoleChefeDepartamento: {
		Label:       "Chefe de Departamento",
		Level:       2,
		Permissions: []string{"users_view", "finance_view", "content", "reports_view"},
	},
	RoleAssistente: {
		Label:       "Assistente",
		Level:       1,
		Permissions: []string{"users_view", "content_view"},
	},
}

// IsAdminRole reports whether role is one of the recognized administrative
// roles. The empty role and unknown strings are not.
func IsAdminRole(role Role) bool {
	_, ok := roles[role]
	return ok
}

// AdminLabel returns the display label for a recognized role and
// FallbackLabel otherwise.
func AdminLabel(role Role) string {
	if def, ok := roles[role]; ok {
		return def.Label
	}
	return FallbackLabel
}

// AdminLevel returns the hierarchy level for a recognized role and 0
// otherwise. Levels are only meaningful for comparing administrators with
// each other, never for gating end-user actions.
func AdminLevel(role Role) int {
	if def, ok := roles[role]; ok {
		return def.Level
	}
	return 0
}

// HasPermission reports whether role carries perm. A recognized role with
// the wildcard permission passes every check; an unrecognized role passes
// none. Permission strings are matched verbatim: "users_view" does not
// imply "users" and vice versa.
func HasPermission(role Role, perm string) bool {
	def, ok := roles[role]
	if !ok {
		return false
	}
	for _, p := range def.Permissions {
		if p == PermAll || p == perm {
			return true
		}
	}
	return false
}

// CanAccessFeature reports whether role sits at or above requiredLevel.
func CanAccessFeature(role Role, requiredLevel int) bool {
	return AdminLevel(role) >= requiredLevel
}

// CanManageRole reports whether an actor may grant or revoke the target's
// role. A MaxLevel actor manages anyone, including other MaxLevel admins;
// everyone else needs a strictly higher level than the target. An actor
// never manages their own assignment, so actorID == targetID is refused
// regardless of level.
func CanManageRole(actorID string, actorRole Role, targetID string, targetRole Role) bool {
	if actorID == targetID {
		return false
	}
	actorLevel := AdminLevel(actorRole)
	if actorLevel == 0 {
		return false
	}
	if actorLevel == MaxLevel {
		return true
	}
	return actorLevel > AdminLevel(targetRole)
}

// Definitions returns a copy of the role table for listing screens.
func Definitions() map[Role]Definition {
	out := make(map[Role]Definition, len(roles))
	for r, d := range roles {
		perms := make([]string, len(d.Permissions))
		copy(perms, d.Permissions)
		out[r] = Definition{Label: d.Label, Level: d.Level, Permissions: perms}
	}
	return out
}
