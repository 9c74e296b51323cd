package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/adapters/driven/storage/sqlite"
)

func setupSessionStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sessionStore = store
	return store
}

func TestSessionCmd_HasSubcommands(t *testing.T) {
	commands := sessionCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "rename")
}

func TestSessionListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	setupSessionStore(t)

	out, err := execute("session", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestSessionListCmd_ShowsSessions(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	store := setupSessionStore(t)

	session, err := store.CreateSession(context.Background(), "default", "Project questions")
	require.NoError(t, err)

	out, err := execute("session", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, session.ID)
	assert.Contains(t, out, "Project questions")
}

func TestSessionRenameCmd_RenamesOwnSession(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	store := setupSessionStore(t)

	session, err := store.CreateSession(context.Background(), "default", "Old title")
	require.NoError(t, err)

	out, err := execute("session", "rename", session.ID, "New title")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed session")

	listOut, err := execute("session", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "New title")
}

func TestSessionDeleteCmd_DeniesForeignSession(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	store := setupSessionStore(t)

	session, err := store.CreateSession(context.Background(), "someone-else", "Private")
	require.NoError(t, err)

	_, err = execute("session", "delete", session.ID)

	assert.Error(t, err)
}

func TestSessionCmds_ErrorWithoutStore(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("session", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
