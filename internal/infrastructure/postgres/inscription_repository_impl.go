package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
	"github.com/institutoavanca/portal-api/internal/domain/repository"
)

type InscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewInscriptionRepository(pool *pgxpool.Pool) *InscriptionRepository {
	return &InscriptionRepository{pool: pool}
}

const inscriptionColumns = `id, full_name, email, phone, birth_date, COALESCE(course_id::text, ''), schedule, message, status, submitted_at, updated_at`

func (r *InscriptionRepository) Create(i *entity.Inscription) error {
	ctx := context.Background()
	if i.Status == "" {
		i.Status = entity.InscriptionNew
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO inscriptions (full_name, email, phone, birth_date, course_id, schedule, message, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8)
		RETURNING id, submitted_at, updated_at
	`, i.FullName, i.Email, i.Phone, i.BirthDate, i.CourseID, i.Schedule, i.Message, i.Status)
	return row.Scan(&i.ID, &i.SubmittedAt, &i.UpdatedAt)
}

func (r *InscriptionRepository) GetByID(id string) (*entity.Inscription, error) {
	ctx := context.Background()
	i := &entity.Inscription{}
	row := r.pool.QueryRow(ctx, `SELECT `+inscriptionColumns+` FROM inscriptions WHERE id = $1`, id)
	if err := row.Scan(&i.ID, &i.FullName, &i.Email, &i.Phone, &i.BirthDate, &i.CourseID,
		&i.Schedule, &i.Message, &i.Status, &i.SubmittedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return i, nil
}

func (r *InscriptionRepository) UpdateStatus(id, status string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE inscriptions SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InscriptionRepository) List(status string, limit, offset int) ([]entity.Inscription, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+inscriptionColumns+` FROM inscriptions
		WHERE ($1 = '' OR status = $1)
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Inscription
	for rows.Next() {
		var i entity.Inscription
		if err := rows.Scan(&i.ID, &i.FullName, &i.Email, &i.Phone, &i.BirthDate, &i.CourseID,
			&i.Schedule, &i.Message, &i.Status, &i.SubmittedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

var _ repository.InscriptionRepository = (*InscriptionRepository)(nil)

type VocationalRepository struct {
	pool *pgxpool.Pool
}

func NewVocationalRepository(pool *pgxpool.Pool) *VocationalRepository {
	return &VocationalRepository{pool: pool}
}

func (r *VocationalRepository) Create(v *entity.VocationalResult) error {
	ctx := context.Background()
	scores, err := json.Marshal(v.Scores)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vocational_results (profile_id, scores, recommended_area, course_id)
		VALUES (NULLIF($1, '')::uuid, $2, $3, NULLIF($4, '')::uuid)
		RETURNING id, taken_at
	`, v.ProfileID, scores, v.RecommendedArea, v.CourseID)
	return row.Scan(&v.ID, &v.TakenAt)
}

func (r *VocationalRepository) ListByProfile(profileID string) ([]entity.VocationalResult, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(profile_id::text, ''), scores, recommended_area, COALESCE(course_id::text, ''), taken_at
		FROM vocational_results
		WHERE profile_id = $1::uuid
		ORDER BY taken_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.VocationalResult
	for rows.Next() {
		var v entity.VocationalResult
		var scores []byte
		if err := rows.Scan(&v.ID, &v.ProfileID, &scores, &v.RecommendedArea, &v.CourseID, &v.TakenAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scores, &v.Scores); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ repository.VocationalRepository = (*VocationalRepository)(nil)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Save inserts a new conversation or replaces the messages of an existing
// one (the widget posts the whole transcript after each exchange).
func (r *ChatRepository) Save(c *entity.ChatConversation) error {
	ctx := context.Background()
	messages, err := json.Marshal(c.Messages)
	if err != nil {
		return err
	}
	if c.ID == "" {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO chat_conversations (profile_id, messages)
			VALUES (NULLIF($1, '')::uuid, $2)
			RETURNING id, created_at, updated_at
		`, c.ProfileID, messages)
		return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE chat_conversations SET messages = $1, updated_at = now() WHERE id = $2
	`, messages, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChatRepository) ListByProfile(profileID string, limit int) ([]entity.ChatConversation, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(profile_id::text, ''), messages, created_at, updated_at
		FROM chat_conversations
		WHERE profile_id = $1::uuid
		ORDER BY updated_at DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.ChatConversation
	for rows.Next() {
		var c entity.ChatConversation
		var messages []byte
		if err := rows.Scan(&c.ID, &c.ProfileID, &messages, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(messages, &c.Messages); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.ChatRepository = (*ChatRepository)(nil)
