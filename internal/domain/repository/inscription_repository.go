package repository

import "github.com/institutoavanca/portal-api/internal/domain/entity"

// InscriptionRepository persists public pre-enrollment submissions.
type InscriptionRepository interface {
	Create(i *entity.Inscription) error
	GetByID(id string) (*entity.Inscription, error)
	UpdateStatus(id, status string) error
	List(status string, limit, offset int) ([]entity.Inscription, error)
}

// VocationalRepository persists completed vocational tests.
type VocationalRepository interface {
	Create(r *entity.VocationalResult) error
	ListByProfile(profileID string) ([]entity.VocationalResult, error)
}

// ChatRepository persists widget transcripts.
type ChatRepository interface {
	Save(c *entity.ChatConversation) error
	ListByProfile(profileID string, limit int) ([]entity.ChatConversation, error)
}
