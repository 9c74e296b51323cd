package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("search", "anything")

	assert.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_FindsUploadedContent(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, "fox.txt", "the quick brown fox jumps over the lazy dog")
	_, err := execute("upload", path)
	require.NoError(t, err)

	out, err := execute("search", "quick brown fox")

	assert.NoError(t, err)
	assert.Contains(t, out, "fox.txt")
	assert.Contains(t, out, "quick brown fox")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, "data.txt", "structured output check")
	_, err := execute("upload", path)
	require.NoError(t, err)

	out, err := execute("search", "structured output", "--json")
	require.NoError(t, err)
	defer func() { searchJSON = false }()

	var passages []domain.RetrievedPassage
	require.NoError(t, json.Unmarshal([]byte(out), &passages))
	require.NotEmpty(t, passages)
	assert.Equal(t, "data.txt", passages[0].SourceFilename)
}
