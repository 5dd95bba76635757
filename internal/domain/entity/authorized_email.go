package entity

import "time"

// AuthorizedEmail is a pre-approval record gating student self-registration.
// RegisteredAt is set exactly once, when the email is used to create an
// account; a nil RegisteredAt means the email is still eligible for signup.
type AuthorizedEmail struct {
	ID            string
	Email         string
	FullName      string
	CourseID      string // optional pre-assigned course
	StudentNumber string
	AuthorizedBy  string
	AuthorizedAt  time.Time
	RegisteredAt  *time.Time
}

// Eligible reports whether this entry can still be used to register.
func (a *AuthorizedEmail) Eligible() bool {
	return a.RegisteredAt == nil
}
