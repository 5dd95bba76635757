package entity

import "time"

// ChatConversation is a persisted widget transcript. The relay never
// writes here; the widget consumer stores finished exchanges.
type ChatConversation struct {
	ID        string
	ProfileID string // empty for anonymous visitors
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is one turn of a conversation. Role is "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
