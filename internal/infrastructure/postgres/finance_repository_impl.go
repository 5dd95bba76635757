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

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, enrollment_id, profile_id, description, amount_cents, status, due_date, paid_at, created_at, updated_at`

func (r *PaymentRepository) Create(p *entity.Payment) error {
	ctx := context.Background()
	if p.Status == "" {
		p.Status = entity.PaymentPending
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (enrollment_id, profile_id, description, amount_cents, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.EnrollmentID, p.ProfileID, p.Description, p.AmountCents, p.Status, p.DueDate)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepository) GetByID(id string) (*entity.Payment, error) {
	ctx := context.Background()
	p := &entity.Payment{}
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err := row.Scan(&p.ID, &p.EnrollmentID, &p.ProfileID, &p.Description, &p.AmountCents,
		&p.Status, &p.DueDate, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) MarkPaid(id string, at time.Time) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE payments SET status = $1, paid_at = $2, updated_at = now() WHERE id = $3
	`, entity.PaymentPaid, at, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) ListByProfile(profileID string) ([]entity.Payment, error) {
	return r.list(`WHERE profile_id = $1 ORDER BY due_date`, profileID)
}

func (r *PaymentRepository) ListByStatus(status string) ([]entity.Payment, error) {
	return r.list(`WHERE status = $1 ORDER BY due_date`, status)
}

func (r *PaymentRepository) list(tail string, arg any) ([]entity.Payment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments `+tail, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.EnrollmentID, &p.ProfileID, &p.Description, &p.AmountCents,
			&p.Status, &p.DueDate, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

type DocumentRequestRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRequestRepository(pool *pgxpool.Pool) *DocumentRequestRepository {
	return &DocumentRequestRepository{pool: pool}
}

const documentColumns = `id, profile_id, kind, notes, status, file_url, requested_at, updated_at`

func (r *DocumentRequestRepository) Create(d *entity.DocumentRequest) error {
	ctx := context.Background()
	if d.Status == "" {
		d.Status = entity.DocumentRequested
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO document_requests (profile_id, kind, notes, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, requested_at, updated_at
	`, d.ProfileID, d.Kind, d.Notes, d.Status)
	return row.Scan(&d.ID, &d.RequestedAt, &d.UpdatedAt)
}

func (r *DocumentRequestRepository) GetByID(id string) (*entity.DocumentRequest, error) {
	ctx := context.Background()
	d := &entity.DocumentRequest{}
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM document_requests WHERE id = $1`, id)
	if err := row.Scan(&d.ID, &d.ProfileID, &d.Kind, &d.Notes, &d.Status, &d.FileURL,
		&d.RequestedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DocumentRequestRepository) UpdateStatus(id, status, fileURL string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE document_requests
		SET status = $1, file_url = COALESCE(NULLIF($2, ''), file_url), updated_at = now()
		WHERE id = $3
	`, status, fileURL, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DocumentRequestRepository) ListByProfile(profileID string) ([]entity.DocumentRequest, error) {
	ctx := context.Background()
	return r.list(ctx, `SELECT `+documentColumns+` FROM document_requests WHERE profile_id = $1 ORDER BY requested_at DESC`, profileID)
}

func (r *DocumentRequestRepository) ListPending() ([]entity.DocumentRequest, error) {
	ctx := context.Background()
	return r.list(ctx, `SELECT `+documentColumns+` FROM document_requests WHERE status IN ($1, $2) ORDER BY requested_at`,
		entity.DocumentRequested, entity.DocumentInProcess)
}

func (r *DocumentRequestRepository) list(ctx context.Context, q string, args ...any) ([]entity.DocumentRequest, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.DocumentRequest
	for rows.Next() {
		var d entity.DocumentRequest
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.Kind, &d.Notes, &d.Status, &d.FileURL,
			&d.RequestedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ repository.DocumentRequestRepository = (*DocumentRequestRepository)(nil)
