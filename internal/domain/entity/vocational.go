package entity

import "time"

// VocationalResult is a completed vocational test: area scores plus the
// recommended area and course. ProfileID is empty for anonymous visitors.
type VocationalResult struct {
	ID              string
	ProfileID       string
	Scores          map[string]int
	RecommendedArea string
	CourseID        string
	TakenAt         time.Time
}
