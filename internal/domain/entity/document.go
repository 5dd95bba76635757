package entity

import "time"

// Document request statuses.
const (
	DocumentRequested = "requested"
	DocumentInProcess = "in_process"
	DocumentReady     = "ready"
	DocumentDelivered = "delivered"
)

// DocumentRequest is a student's request for an issued document
// (certificate, declaration, transcript). FileURL is filled when the
// issued file is uploaded to object storage.
type DocumentRequest struct {
	ID          string
	ProfileID   string
	Kind        string
	Notes       string
	Status      string
	FileURL     string
	RequestedAt time.Time
	UpdatedAt   time.Time
}
