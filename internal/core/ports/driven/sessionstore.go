package driven

import (
	"context"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

// SessionStore persists chat sessions and their messages.
// The message log is append-only; the core reads only trailing windows.
type SessionStore interface {
	// CreateSession creates a session for the user and returns it.
	CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error)

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error)

	// ListSessions returns the user's sessions, newest first.
	ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error)

	// DeleteSession removes a session and its messages.
	// The userID must match the session owner.
	DeleteSession(ctx context.Context, sessionID, userID string) error

	// UpdateTitle renames a session. The userID must match the session owner.
	UpdateTitle(ctx context.Context, sessionID, userID, title string) error

	// SaveMessage appends a message to a session.
	SaveMessage(ctx context.Context, msg *domain.ChatMessage) error

	// History returns the session's messages in chronological order.
	// limit > 0 restricts the result to the most recent limit messages.
	History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)

	// Close releases resources.
	Close() error
}
