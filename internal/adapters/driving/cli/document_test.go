package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	commands := documentCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "delete")
}

func TestDocumentListCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("document", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "No documents indexed.")
}

func TestDocumentListCmd_ShowsUploadedDocuments(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, "report.txt", "quarterly report text")
	_, err := execute("upload", path)
	require.NoError(t, err)

	out, err := execute("document", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "report.txt")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentDeleteCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("document", "delete")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentDeleteCmd_DeletesDocument(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, "gone.txt", "to be deleted")
	_, err := execute("upload", path)
	require.NoError(t, err)

	listOut, err := execute("document", "list")
	require.NoError(t, err)
	docID := extractDocID(t, listOut)

	out, err := execute("document", "delete", docID)

	assert.NoError(t, err)
	assert.Contains(t, out, "Deleted "+docID)

	listOut, err = execute("document", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "No documents indexed.")
}

func TestDocumentDeleteCmd_UnknownDocumentFails(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("document", "delete", "no-such-doc")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete document")
}

// extractDocID pulls the first document ID out of list output.
func extractDocID(t *testing.T, listOutput string) string {
	t.Helper()
	for _, line := range strings.Split(listOutput, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 64 && !strings.Contains(trimmed, " ") {
			return trimmed
		}
	}
	t.Fatal("no document ID found in list output")
	return ""
}
