package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
	"github.com/aidbot-ai/aidbot/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Default chat configuration values.
const (
	DefaultSystemPrompt  = "You are a helpful assistant."
	DefaultHistoryWindow = 10
	DefaultMaxTokens     = 1000
	DefaultTemperature   = 0.7
)

// ChatService orchestrates one conversation turn: system instructions,
// best-effort retrieval context, a bounded history window and the current
// message are merged into a single prompt for the completion engine.
type ChatService struct {
	engine    driven.CompletionEngine
	assembler *ContextAssembler
	sessions  driven.SessionStore

	systemPrompt  string
	historyWindow int
	maxTokens     int
	temperature   float64
}

// Option configures the chat service.
type Option func(*ChatService)

// WithSystemPrompt overrides the system instruction string.
func WithSystemPrompt(prompt string) Option {
	return func(s *ChatService) {
		if prompt != "" {
			s.systemPrompt = prompt
		}
	}
}

// WithHistoryWindow sets how many trailing messages Respond feeds into
// the prompt.
func WithHistoryWindow(n int) Option {
	return func(s *ChatService) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithGeneration sets the output token bound and sampling temperature.
func WithGeneration(maxTokens int, temperature float64) Option {
	return func(s *ChatService) {
		if maxTokens > 0 {
			s.maxTokens = maxTokens
		}
		if temperature >= 0 {
			s.temperature = temperature
		}
	}
}

// NewChatService creates a new chat service. The session store is optional;
// without it only the stateless Turn operation is available.
func NewChatService(
	engine driven.CompletionEngine,
	assembler *ContextAssembler,
	sessions driven.SessionStore,
	opts ...Option,
) *ChatService {
	s := &ChatService{
		engine:        engine,
		assembler:     assembler,
		sessions:      sessions,
		systemPrompt:  DefaultSystemPrompt,
		historyWindow: DefaultHistoryWindow,
		maxTokens:     DefaultMaxTokens,
		temperature:   DefaultTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Turn runs one stateless chat turn. The history must already be truncated
// to the desired window by the caller.
//
// A completion-engine failure is converted into a visible apology reply:
// generation failures are recoverable at the conversation boundary, never
// fatal to the service.
func (s *ChatService) Turn(ctx context.Context, message string, history []domain.ChatMessage, tenantID string) (string, error) {
	logger.Section("Chat Turn")

	ragContext := ""
	if s.assembler != nil {
		ragContext, _ = s.assembler.Assemble(ctx, message, tenantID)
	}

	prompt := s.BuildPrompt(message, history, ragContext)
	logger.Debug("Prompt: %d characters, grounded=%t", len(prompt), ragContext != "")

	reply, err := s.engine.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		logger.Warn("Completion failed: %v", err)
		return fmt.Sprintf("Sorry, I encountered an error: %v. Please try again.", err), nil
	}
	return reply, nil
}

// Respond wraps Turn with session persistence: it creates a session when
// none is supplied, windows the stored history, and records both sides of
// the exchange.
func (s *ChatService) Respond(ctx context.Context, req driving.ChatRequest) (*driving.ChatResponse, error) {
	if s.sessions == nil {
		return nil, fmt.Errorf("%w: no session store configured", domain.ErrInvalidInput)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		session, err := s.sessions.CreateSession(ctx, req.UserID, "")
		if err != nil {
			return nil, fmt.Errorf("creating session: %w", err)
		}
		sessionID = session.ID
	}

	history, err := s.sessions.History(ctx, sessionID, s.historyWindow)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	if err := s.sessions.SaveMessage(ctx, &domain.ChatMessage{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   req.Message,
	}); err != nil {
		return nil, fmt.Errorf("saving user message: %w", err)
	}

	reply, err := s.Turn(ctx, req.Message, history, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveMessage(ctx, &domain.ChatMessage{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   reply,
	}); err != nil {
		return nil, fmt.Errorf("saving assistant message: %w", err)
	}

	return &driving.ChatResponse{Response: reply, SessionID: sessionID}, nil
}

// BuildPrompt renders the final prompt string: system instructions, an
// optional context block, prior turns in chronological order, the current
// message and a trailing assistant cue. An empty ragContext produces no
// context block at all.
func (s *ChatService) BuildPrompt(message string, history []domain.ChatMessage, ragContext string) string {
	var sb strings.Builder
	sb.WriteString(s.systemPrompt)
	sb.WriteString("\n\n")

	if ragContext != "" {
		sb.WriteString("Context from documents:\n")
		sb.WriteString(ragContext)
		sb.WriteString("\n\n")
		sb.WriteString("Please use the above context to answer the user's question when relevant.\n\n")
	}

	for _, msg := range history {
		switch msg.Role {
		case domain.RoleUser:
			sb.WriteString("User: " + msg.Content + "\n")
		case domain.RoleAssistant:
			sb.WriteString("Assistant: " + msg.Content + "\n")
		}
	}

	sb.WriteString("User: " + message + "\nAssistant:")
	return sb.String()
}
