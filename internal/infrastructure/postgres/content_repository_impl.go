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

type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

func (r *AnnouncementRepository) Create(a *entity.Announcement) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO announcements (title, body, audience, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.Title, a.Body, a.Audience, a.CreatedBy)
	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AnnouncementRepository) Update(a *entity.Announcement) error {
	ctx := context.Background()
	a.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE announcements SET title = $1, body = $2, audience = $3, updated_at = $4 WHERE id = $5
	`, a.Title, a.Body, a.Audience, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnnouncementRepository) ListForAudience(audience string, limit int) ([]entity.Announcement, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, body, audience, created_by, created_at, updated_at
		FROM announcements
		WHERE audience = 'all' OR audience = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, audience, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Announcement
	for rows.Next() {
		var a entity.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ repository.AnnouncementRepository = (*AnnouncementRepository)(nil)

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

const blogColumns = `id, title, slug, excerpt, body, cover_url, published, published_at, author_id, created_at, updated_at`

func scanBlogPost(row pgx.Row) (*entity.BlogPost, error) {
	p := &entity.BlogPost{}
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.CoverURL,
		&p.Published, &p.PublishedAt, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *BlogRepository) Create(p *entity.BlogPost) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, body, cover_url, published, published_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Excerpt, p.Body, p.CoverURL, p.Published, p.PublishedAt, p.AuthorID)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *BlogRepository) GetBySlug(slug string) (*entity.BlogPost, error) {
	ctx := context.Background()
	return scanBlogPost(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug))
}

func (r *BlogRepository) GetByID(id string) (*entity.BlogPost, error) {
	ctx := context.Background()
	return scanBlogPost(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
}

func (r *BlogRepository) Update(p *entity.BlogPost) error {
	ctx := context.Background()
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE blog_posts
		SET title = $1, slug = $2, excerpt = $3, body = $4, cover_url = $5,
		    published = $6, published_at = $7, updated_at = $8
		WHERE id = $9
	`, p.Title, p.Slug, p.Excerpt, p.Body, p.CoverURL, p.Published, p.PublishedAt, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepository) ListPublished(limit, offset int) ([]entity.BlogPost, error) {
	return r.list(`WHERE published ORDER BY published_at DESC`, limit, offset)
}

func (r *BlogRepository) ListAll(limit, offset int) ([]entity.BlogPost, error) {
	return r.list(`ORDER BY created_at DESC`, limit, offset)
}

func (r *BlogRepository) list(tail string, limit, offset int) ([]entity.BlogPost, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+blogColumns+` FROM blog_posts `+tail+` LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.BlogPost
	for rows.Next() {
		var p entity.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.CoverURL,
			&p.Published, &p.PublishedAt, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
