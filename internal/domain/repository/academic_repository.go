package repository

import "github.com/institutoavanca/portal-api/internal/domain/entity"

// EnrollmentRepository persists course enrollments.
type EnrollmentRepository interface {
	Create(e *entity.Enrollment) error
	GetByID(id string) (*entity.Enrollment, error)
	UpdateStatus(id, status string) error
	ListByProfile(profileID string) ([]entity.Enrollment, error)
	ListByCourse(courseID string) ([]entity.Enrollment, error)
}

// AssessmentRepository persists assessments and grades.
type AssessmentRepository interface {
	CreateAssessment(a *entity.Assessment) error
	ListByDiscipline(disciplineID string) ([]entity.Assessment, error)
	UpsertGrade(g *entity.Grade) error
	ListGradesByProfile(profileID string) ([]entity.Grade, error)
}
