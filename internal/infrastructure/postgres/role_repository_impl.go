package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) Get(accountID string) (*entity.RoleAssignment, error) {
	ctx := context.Background()
	ra := &entity.RoleAssignment{}
	row := r.pool.QueryRow(ctx, `
		SELECT account_id, role, granted_by, granted_at
		FROM role_assignments
		WHERE account_id = $1
	`, accountID)
	if err := row.Scan(&ra.AccountID, &ra.Role, &ra.GrantedBy, &ra.GrantedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ra, nil
}

// Assign grants or replaces the account's single role assignment.
func (r *RoleRepository) Assign(ra *entity.RoleAssignment) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO role_assignments (account_id, role, granted_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET role = EXCLUDED.role, granted_by = EXCLUDED.granted_by, granted_at = now()
		RETURNING granted_at
	`, ra.AccountID, ra.Role, ra.GrantedBy)
	return row.Scan(&ra.GrantedAt)
}

func (r *RoleRepository) Revoke(accountID string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM role_assignments WHERE account_id = $1`, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoleRepository) ListAssignments() ([]entity.RoleAssignment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, role, granted_by, granted_at
		FROM role_assignments
		ORDER BY granted_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.RoleAssignment
	for rows.Next() {
		var ra entity.RoleAssignment
		if err := rows.Scan(&ra.AccountID, &ra.Role, &ra.GrantedBy, &ra.GrantedAt); err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
