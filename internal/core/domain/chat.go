package domain

import "time"

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession groups the messages of one conversation.
type ChatSession struct {
	// ID is the session identifier.
	ID string

	// UserID is the owning tenant.
	UserID string

	// Title is the display title, editable after creation.
	Title string

	// CreatedAt is when the session was created.
	CreatedAt time.Time
}

// ChatMessage is a single turn in a conversation. The store is append-only;
// the core reads only a trailing window of messages.
type ChatMessage struct {
	// SessionID links to the owning session.
	SessionID string

	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}
