package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either set Subject+Text/HTML directly, or set Template and Data and let
// the worker render it.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "invitation", "enrollment_confirmation", "payment_receipt"
	Data     map[string]any `json:"data,omitempty"`
}
