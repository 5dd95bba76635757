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

type AuthorizedEmailRepository struct {
	pool *pgxpool.Pool
}

func NewAuthorizedEmailRepository(pool *pgxpool.Pool) *AuthorizedEmailRepository {
	return &AuthorizedEmailRepository{pool: pool}
}

func (r *AuthorizedEmailRepository) Create(e *entity.AuthorizedEmail) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO authorized_emails (email, full_name, course_id, student_number, authorized_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, authorized_at
	`, e.Email, e.FullName, e.CourseID, e.StudentNumber, e.AuthorizedBy)
	return row.Scan(&e.ID, &e.AuthorizedAt)
}

func (r *AuthorizedEmailRepository) GetByEmail(email string) (*entity.AuthorizedEmail, error) {
	ctx := context.Background()
	e := &entity.AuthorizedEmail{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, full_name, COALESCE(course_id::text, ''), student_number, authorized_by, authorized_at, registered_at
		FROM authorized_emails
		WHERE email = $1
	`, email)
	if err := row.Scan(&e.ID, &e.Email, &e.FullName, &e.CourseID, &e.StudentNumber,
		&e.AuthorizedBy, &e.AuthorizedAt, &e.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// MarkRegistered stamps the entry exactly once; an already-stamped entry is
// reported as not found so callers can't re-register it.
func (r *AuthorizedEmailRepository) MarkRegistered(id string, at time.Time) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE authorized_emails SET registered_at = $1
		WHERE id = $2 AND registered_at IS NULL
	`, at, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AuthorizedEmailRepository) List() ([]entity.AuthorizedEmail, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name, COALESCE(course_id::text, ''), student_number, authorized_by, authorized_at, registered_at
		FROM authorized_emails
		ORDER BY authorized_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.AuthorizedEmail
	for rows.Next() {
		var e entity.AuthorizedEmail
		if err := rows.Scan(&e.ID, &e.Email, &e.FullName, &e.CourseID, &e.StudentNumber,
			&e.AuthorizedBy, &e.AuthorizedAt, &e.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *AuthorizedEmailRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM authorized_emails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ repository.AuthorizedEmailRepository = (*AuthorizedEmailRepository)(nil)
