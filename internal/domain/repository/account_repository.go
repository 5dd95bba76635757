package repository

import "github.com/institutoavanca/portal-api/internal/domain/entity"

// AccountRepository defines credential and role-assignment persistence.
type AccountRepository interface {
	Create(a *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	GetByEmail(email string) (*entity.Account, error)
	UpdatePassword(id, hash string) error
}

// RoleRepository manages the single role assignment per account.
type RoleRepository interface {
	Get(accountID string) (*entity.RoleAssignment, error)
	Assign(ra *entity.RoleAssignment) error
	Revoke(accountID string) error
	ListAssignments() ([]entity.RoleAssignment, error)
}

// ProfileRepository persists student/staff profiles.
type ProfileRepository interface {
	Create(p *entity.Profile) error
	GetByID(id string) (*entity.Profile, error)
	GetByAccountID(accountID string) (*entity.Profile, error)
	Update(p *entity.Profile) error
	List(limit, offset int) ([]entity.Profile, error)
}
