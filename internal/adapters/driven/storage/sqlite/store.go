package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// DefaultTitle is the title given to sessions created without one.
const DefaultTitle = "New Chat"

// schema creates the session tables. The store owns its schema; the
// message log is append-only.
const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	session_id TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES chat_sessions(session_id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, id);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, created_at);
`

// Store is a SQLite-backed session store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the given data directory.
// If dataDir is empty, defaults to ~/.aidbot/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".aidbot", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chat.db")

	// WAL mode for concurrent request handlers
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CreateSession creates a session for the user and returns it.
func (s *Store) CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error) {
	if title == "" {
		title = DefaultTitle
	}
	session := &domain.ChatSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_sessions (session_id, user_id, title, created_at) VALUES (?, ?, ?, ?)",
		session.ID, session.UserID, session.Title, session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT session_id, user_id, title, created_at FROM chat_sessions WHERE session_id = ?",
		sessionID,
	)

	var session domain.ChatSession
	err := row.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &session, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, user_id, title, created_at FROM chat_sessions WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and its messages.
// The userID must match the session owner.
func (s *Store) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if err := s.checkOwnership(ctx, sessionID, userID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM chat_sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// UpdateTitle renames a session. The userID must match the session owner.
func (s *Store) UpdateTitle(ctx context.Context, sessionID, userID, title string) error {
	if err := s.checkOwnership(ctx, sessionID, userID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE chat_sessions SET title = ? WHERE session_id = ?", title, sessionID)
	if err != nil {
		return fmt.Errorf("updating title: %w", err)
	}
	return nil
}

// SaveMessage appends a message to a session.
func (s *Store) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		msg.SessionID, msg.Role, msg.Content, createdAt,
	)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// History returns the session's messages in chronological order.
// limit > 0 restricts the result to the most recent limit messages.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT session_id, role, content, created_at FROM (
			SELECT id, session_id, role, content, created_at
			FROM chat_messages WHERE session_id = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// checkOwnership verifies the session exists and belongs to the user.
func (s *Store) checkOwnership(ctx context.Context, sessionID, userID string) error {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM chat_sessions WHERE session_id = ?", sessionID)

	var owner string
	err := row.Scan(&owner)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking ownership: %w", err)
	}
	if owner != userID {
		return domain.ErrPermissionDenied
	}
	return nil
}
