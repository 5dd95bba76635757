package entity

import "time"

// Announcement is an internal notice shown on dashboards. Audience is
// "all", "students" or "admins".
type Announcement struct {
	ID        string
	Title     string
	Body      string
	Audience  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlogPost is a public marketing article.
type BlogPost struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	CoverURL    string
	Published   bool
	PublishedAt *time.Time
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
