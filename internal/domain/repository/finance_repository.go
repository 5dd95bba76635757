package repository

import (
	"time"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
)

// PaymentRepository persists tuition installments.
type PaymentRepository interface {
	Create(p *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	MarkPaid(id string, at time.Time) error
	ListByProfile(profileID string) ([]entity.Payment, error)
	ListByStatus(status string) ([]entity.Payment, error)
}

// DocumentRequestRepository persists document requests.
type DocumentRequestRepository interface {
	Create(d *entity.DocumentRequest) error
	GetByID(id string) (*entity.DocumentRequest, error)
	UpdateStatus(id, status, fileURL string) error
	ListByProfile(profileID string) ([]entity.DocumentRequest, error)
	ListPending() ([]entity.DocumentRequest, error)
}
