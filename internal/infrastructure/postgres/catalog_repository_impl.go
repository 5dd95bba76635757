package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/repository"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, name, slug, description, area, duration_hours, price_cents, active, created_at, updated_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Area,
		&c.DurationHours, &c.PriceCents, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) Create(c *entity.Course) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (name, slug, description, area, duration_hours, price_cents, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Slug, c.Description, c.Area, c.DurationHours, c.PriceCents, c.Active)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CourseRepository) GetByID(id string) (*entity.Course, error) {
	ctx := context.Background()
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *CourseRepository) GetBySlug(slug string) (*entity.Course, error) {
	ctx := context.Background()
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE slug = $1`, slug))
}

func (r *CourseRepository) Update(c *entity.Course) error {
	ctx := context.Background()
	c.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE courses
		SET name = $1, slug = $2, description = $3, area = $4, duration_hours = $5,
		    price_cents = $6, active = $7, updated_at = $8
		WHERE id = $9
	`, c.Name, c.Slug, c.Description, c.Area, c.DurationHours, c.PriceCents, c.Active, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepository) List(activeOnly bool) ([]entity.Course, error) {
	ctx := context.Background()
	q := `SELECT ` + courseColumns + ` FROM courses ORDER BY name`
	if activeOnly {
		q = `SELECT ` + courseColumns + ` FROM courses WHERE active ORDER BY name`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Course
	for rows.Next() {
		var c entity.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Area,
			&c.DurationHours, &c.PriceCents, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CourseRepository = (*CourseRepository)(nil)

type DisciplineRepository struct {
	pool *pgxpool.Pool
}

func NewDisciplineRepository(pool *pgxpool.Pool) *DisciplineRepository {
	return &DisciplineRepository{pool: pool}
}

func (r *DisciplineRepository) Create(d *entity.Discipline) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO disciplines (course_id, name, hours, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, d.CourseID, d.Name, d.Hours, d.SortOrder)
	return row.Scan(&d.ID, &d.CreatedAt)
}

func (r *DisciplineRepository) Update(d *entity.Discipline) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE disciplines SET name = $1, hours = $2, sort_order = $3 WHERE id = $4
	`, d.Name, d.Hours, d.SortOrder, d.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DisciplineRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM disciplines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DisciplineRepository) ListByCourse(courseID string) ([]entity.Discipline, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, name, hours, sort_order, created_at
		FROM disciplines
		WHERE course_id = $1
		ORDER BY sort_order, name
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Discipline
	for rows.Next() {
		var d entity.Discipline
		if err := rows.Scan(&d.ID, &d.CourseID, &d.Name, &d.Hours, &d.SortOrder, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ repository.DisciplineRepository = (*DisciplineRepository)(nil)
