package repository

import "github.com/institutoavanca/portal-api/internal/domain/entity"

// AnnouncementRepository persists dashboard notices.
type AnnouncementRepository interface {
	Create(a *entity.Announcement) error
	Update(a *entity.Announcement) error
	Delete(id string) error
	ListForAudience(audience string, limit int) ([]entity.Announcement, error)
}

// BlogRepository persists marketing articles.
type BlogRepository interface {
	Create(p *entity.BlogPost) error
	GetBySlug(slug string) (*entity.BlogPost, error)
	GetByID(id string) (*entity.BlogPost, error)
	Update(p *entity.BlogPost) error
	Delete(id string) error
	ListPublished(limit, offset int) ([]entity.BlogPost, error)
	ListAll(limit, offset int) ([]entity.BlogPost, error)
}
