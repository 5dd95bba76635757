package repository

import (
	"time"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
)

// AuthorizedEmailRepository persists signup pre-approvals. Lookups are by
// normalized (trimmed, lowercased) email; normalization is the caller's job.
type AuthorizedEmailRepository interface {
	Create(e *entity.AuthorizedEmail) error
	GetByEmail(email string) (*entity.AuthorizedEmail, error)
	MarkRegistered(id string, at time.Time) error
	List() ([]entity.AuthorizedEmail, error)
	Delete(id string) error
}
