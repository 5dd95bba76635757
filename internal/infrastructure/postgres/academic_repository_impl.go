package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/repository"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

func (r *EnrollmentRepository) Create(e *entity.Enrollment) error {
	ctx := context.Background()
	if e.Status == "" {
		e.Status = entity.EnrollmentActive
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO enrollments (profile_id, course_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, enrolled_at, updated_at
	`, e.ProfileID, e.CourseID, e.Status)
	return row.Scan(&e.ID, &e.EnrolledAt, &e.UpdatedAt)
}

func (r *EnrollmentRepository) GetByID(id string) (*entity.Enrollment, error) {
	ctx := context.Background()
	e := &entity.Enrollment{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, profile_id, course_id, status, enrolled_at, updated_at
		FROM enrollments WHERE id = $1
	`, id)
	if err := row.Scan(&e.ID, &e.ProfileID, &e.CourseID, &e.Status, &e.EnrolledAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EnrollmentRepository) UpdateStatus(id, status string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE enrollments SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EnrollmentRepository) ListByProfile(profileID string) ([]entity.Enrollment, error) {
	return r.list(`WHERE profile_id = $1`, profileID)
}

func (r *EnrollmentRepository) ListByCourse(courseID string) ([]entity.Enrollment, error) {
	return r.list(`WHERE course_id = $1`, courseID)
}

func (r *EnrollmentRepository) list(where string, arg any) ([]entity.Enrollment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, course_id, status, enrolled_at, updated_at
		FROM enrollments `+where+` ORDER BY enrolled_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Enrollment
	for rows.Next() {
		var e entity.Enrollment
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.CourseID, &e.Status, &e.EnrolledAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)

type AssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

func (r *AssessmentRepository) CreateAssessment(a *entity.Assessment) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assessments (discipline_id, title, weight, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, a.DisciplineID, a.Title, a.Weight, a.Date)
	return row.Scan(&a.ID, &a.CreatedAt)
}

func (r *AssessmentRepository) ListByDiscipline(disciplineID string) ([]entity.Assessment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, discipline_id, title, weight, date, created_at
		FROM assessments WHERE discipline_id = $1 ORDER BY date
	`, disciplineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Assessment
	for rows.Next() {
		var a entity.Assessment
		if err := rows.Scan(&a.ID, &a.DisciplineID, &a.Title, &a.Weight, &a.Date, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertGrade records a score, replacing an earlier one for the same
// assessment and student (last write wins).
func (r *AssessmentRepository) UpsertGrade(g *entity.Grade) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO grades (assessment_id, profile_id, value, graded_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (assessment_id, profile_id)
		DO UPDATE SET value = EXCLUDED.value, graded_by = EXCLUDED.graded_by, graded_at = now()
		RETURNING id, graded_at
	`, g.AssessmentID, g.ProfileID, g.Value, g.GradedBy)
	return row.Scan(&g.ID, &g.GradedAt)
}

func (r *AssessmentRepository) ListGradesByProfile(profileID string) ([]entity.Grade, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, assessment_id, profile_id, value, graded_by, graded_at
		FROM grades WHERE profile_id = $1 ORDER BY graded_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Grade
	for rows.Next() {
		var g entity.Grade
		if err := rows.Scan(&g.ID, &g.AssessmentID, &g.ProfileID, &g.Value, &g.GradedBy, &g.GradedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

var _ repository.AssessmentRepository = (*AssessmentRepository)(nil)
