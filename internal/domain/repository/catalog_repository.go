package repository

import "github.com/institutoavanca/portal-api/internal/domain/entity"

// CourseRepository persists the course catalog.
type CourseRepository interface {
	Create(c *entity.Course) error
	GetByID(id string) (*entity.Course, error)
	GetBySlug(slug string) (*entity.Course, error)
	Update(c *entity.Course) error
	Delete(id string) error
	List(activeOnly bool) ([]entity.Course, error)
}

// DisciplineRepository persists course disciplines.
type DisciplineRepository interface {
	Create(d *entity.Discipline) error
	Update(d *entity.Discipline) error
	Delete(id string) error
	ListByCourse(courseID string) ([]entity.Discipline, error)
}
