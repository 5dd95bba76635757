package entity

import "time"

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

// Payment is a tuition or fee installment attached to an enrollment.
type Payment struct {
	ID           string
	EnrollmentID string
	ProfileID    string
	Description  string
	AmountCents  int64
	Status       string
	DueDate      time.Time
	PaidAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
