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

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, account_id, full_name, email, phone, student_number, avatar_url, created_at, updated_at`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	if err := row.Scan(&p.ID, &p.AccountID, &p.FullName, &p.Email, &p.Phone,
		&p.StudentNumber, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) Create(p *entity.Profile) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (account_id, full_name, email, phone, student_number, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.AccountID, p.FullName, p.Email, p.Phone, p.StudentNumber, p.AvatarURL)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepository) GetByID(id string) (*entity.Profile, error) {
	ctx := context.Background()
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *ProfileRepository) GetByAccountID(accountID string) (*entity.Profile, error) {
	ctx := context.Background()
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE account_id = $1`, accountID))
}

func (r *ProfileRepository) Update(p *entity.Profile) error {
	ctx := context.Background()
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET full_name = $1, phone = $2, avatar_url = $3, updated_at = $4
		WHERE id = $5
	`, p.FullName, p.Phone, p.AvatarURL, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) List(limit, offset int) ([]entity.Profile, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+` FROM profiles ORDER BY full_name LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.AccountID, &p.FullName, &p.Email, &p.Phone,
			&p.StudentNumber, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
