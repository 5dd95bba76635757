package entity

import "time"

// Inscription statuses.
const (
	InscriptionNew       = "new"
	InscriptionContacted = "contacted"
	InscriptionConverted = "converted"
	InscriptionDiscarded = "discarded"
)

// Inscription is a pre-enrollment submitted through the public multi-step
// form. It is a lead, not an enrollment; converting one is an admin action.
type Inscription struct {
	ID          string
	FullName    string
	Email       string
	Phone       string
	BirthDate   *time.Time
	CourseID    string
	Schedule    string // preferred schedule: "laboral", "pos-laboral"
	Message     string
	Status      string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}
