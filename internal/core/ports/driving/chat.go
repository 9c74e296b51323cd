package driving

import (
	"context"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

// ChatService conducts document-grounded conversations.
type ChatService interface {
	// Turn runs one stateless chat turn: retrieval context is assembled
	// best-effort for the tenant, merged with the supplied history, and the
	// resulting prompt is submitted to the completion engine. The history
	// must already be truncated to the desired window by the caller.
	//
	// A completion-engine failure is returned as an apology reply, not an
	// error; the conversation never hard-fails at this boundary.
	Turn(ctx context.Context, message string, history []domain.ChatMessage, tenantID string) (string, error)

	// Respond wraps Turn with session persistence: it creates a session if
	// none is given, windows the stored history, and records both sides of
	// the exchange.
	Respond(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest is one conversational exchange from a user.
type ChatRequest struct {
	// Message is the user's message.
	Message string

	// SessionID continues an existing session when set.
	SessionID string

	// UserID is the tenant whose documents ground the response.
	UserID string
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	// Response is the generated reply text.
	Response string

	// SessionID identifies the (possibly newly created) session.
	SessionID string
}
