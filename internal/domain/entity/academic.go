package entity

import "time"

// Enrollment statuses.
const (
	EnrollmentActive    = "active"
	EnrollmentSuspended = "suspended"
	EnrollmentConcluded = "concluded"
)

// Enrollment links a profile to a course.
type Enrollment struct {
	ID         string
	ProfileID  string
	CourseID   string
	Status     string
	EnrolledAt time.Time
	UpdatedAt  time.Time
}

// Assessment is a graded moment of a discipline (test, project, exam).
type Assessment struct {
	ID           string
	DisciplineID string
	Title        string
	Weight       float64
	Date         time.Time
	CreatedAt    time.Time
}

// Grade is a student's score on an assessment, 0-20 scale.
type Grade struct {
	ID           string
	AssessmentID string
	ProfileID    string
	Value        float64
	GradedBy     string
	GradedAt     time.Time
}
