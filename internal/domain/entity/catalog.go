package entity

import "time"

// Course is an entry in the public course catalog.
type Course struct {
	ID            string
	Name          string
	Slug          string
	Description   string
	Area          string
	DurationHours int
	PriceCents    int64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Discipline is a teaching unit inside a course.
type Discipline struct {
	ID        string
	CourseID  string
	Name      string
	Hours     int
	SortOrder int
	CreatedAt time.Time
}
