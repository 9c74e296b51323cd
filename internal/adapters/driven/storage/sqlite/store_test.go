package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "u1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultTitle, created.Title)

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "u1", got.UserID)
}

func TestGetSession_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSessions_PerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateSession(ctx, "u1", "first")
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, "u1", "second")
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, "u2", "other user")
	require.NoError(t, err)

	sessions, err := store.ListSessions(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	sessions, err = store.ListSessions(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDeleteSession_Ownership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "u1", "mine")
	require.NoError(t, err)

	err = store.DeleteSession(ctx, session.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// Still present after the denied attempt.
	_, err = store.GetSession(ctx, session.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx, session.ID, "u1"))

	_, err = store.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSession_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteSession(context.Background(), "missing", "u1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "u1", "old title")
	require.NoError(t, err)

	err = store.UpdateTitle(ctx, session.ID, "u2", "hijacked")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	require.NoError(t, store.UpdateTitle(ctx, session.ID, "u1", "new title"))

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
}

func TestHistory_TrailingWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "u1", "")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		err := store.SaveMessage(ctx, &domain.ChatMessage{
			SessionID: session.ID,
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	// Full history, chronological.
	all, err := store.History(ctx, session.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "message 0", all[0].Content)
	assert.Equal(t, "message 5", all[5].Content)

	// Trailing window keeps the most recent messages, still chronological.
	window, err := store.History(ctx, session.ID, 4)
	require.NoError(t, err)
	require.Len(t, window, 4)
	assert.Equal(t, "message 2", window[0].Content)
	assert.Equal(t, "message 5", window[3].Content)
}

func TestHistory_EmptySession(t *testing.T) {
	store := newTestStore(t)

	messages, err := store.History(context.Background(), "no-such-session", 10)

	require.NoError(t, err)
	assert.Empty(t, messages)
}
