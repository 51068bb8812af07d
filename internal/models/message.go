package models

// Message roles as stored in history and sent to the language gateway.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents a single message in a conversation's history.
// Timestamp is float seconds since the Unix epoch, matching the stored
// record format.
type Message struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

// Conversation is the per-user session record. Name and Language are
// optional; the broadcast job falls back to ChatID and "en" when they are
// empty.
type Conversation struct {
	ChatID   string `json:"chat_id"`
	Name     string `json:"name,omitempty"`
	Language string `json:"language,omitempty"`
}
