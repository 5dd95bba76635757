package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/internal/domain/entity"
)

// SearchService mirrors student profiles and blog posts into Elasticsearch.
// Indexing is best-effort: a failure is logged and never blocks the write
// path, Postgres stays the source of truth.
type SearchService struct {
	ES            *elasticsearch.Client
	StudentsIndex string
	PostsIndex    string
	Logger        *logrus.Logger
}

type studentDoc struct {
	ProfileID     string `json:"profile_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	StudentNumber string `json:"student_number"`
}

type postDoc struct {
	PostID  string `json:"post_id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	Body    string `json:"body"`
}

func (s *SearchService) IndexStudent(ctx context.Context, p *entity.Profile) {
	if s.ES == nil {
		return
	}
	doc := studentDoc{ProfileID: p.ID, FullName: p.FullName, Email: p.Email, StudentNumber: p.StudentNumber}
	s.index(ctx, s.StudentsIndex, p.ID, doc)
}

func (s *SearchService) IndexPost(ctx context.Context, p *entity.BlogPost) {
	if s.ES == nil {
		return
	}
	doc := postDoc{PostID: p.ID, Title: p.Title, Slug: p.Slug, Excerpt: p.Excerpt, Body: p.Body}
	s.index(ctx, s.PostsIndex, p.ID, doc)
}

func (s *SearchService) DeletePost(ctx context.Context, id string) {
	if s.ES == nil {
		return
	}
	res, err := s.ES.Delete(s.PostsIndex, id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		s.warn("es delete failed", err, s.PostsIndex, id)
		return
	}
	defer res.Body.Close()
}

func (s *SearchService) index(ctx context.Context, index, id string, doc any) {
	body, err := json.Marshal(doc)
	if err != nil {
		s.warn("es marshal failed", err, index, id)
		return
	}
	res, err := s.ES.Index(index, bytes.NewReader(body),
		s.ES.Index.WithDocumentID(id),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		s.warn("es index failed", err, index, id)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		s.warn("es index error response", fmt.Errorf("status %s", res.Status()), index, id)
	}
}

// SearchStudents runs a fuzzy multi-field query over the students index.
func (s *SearchService) SearchStudents(ctx context.Context, query string, limit int) ([]string, error) {
	if s.ES == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	q := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"full_name^2", "email", "student_number"},
				"fuzziness": "AUTO",
			},
		},
	}
	body, _ := json.Marshal(q)
	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.StudentsIndex),
		s.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (s *SearchService) warn(msg string, err error, index, id string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(logrus.Fields{"index": index, "doc_id": id}).Warn(msg)
}

// EnsureIndices creates the indices if missing; mapping is left dynamic.
func (s *SearchService) EnsureIndices(ctx context.Context) {
	if s.ES == nil {
		return
	}
	for _, idx := range []string{s.StudentsIndex, s.PostsIndex} {
		if strings.TrimSpace(idx) == "" {
			continue
		}
		res, err := s.ES.Indices.Create(idx, s.ES.Indices.Create.WithContext(ctx))
		if err != nil {
			s.warn("es index create failed", err, idx, "")
			continue
		}
		res.Body.Close()
	}
}
