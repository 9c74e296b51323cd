package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestExtract_JoinsPagesWithNewlines(t *testing.T) {
	e := New(WithRunner(&mockRunner{output: []byte("page one\fpage two\fpage three\f")}))

	got, err := e.Extract(context.Background(), []byte("%PDF-1.4"), "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, "page one\npage two\npage three", got)
}

func TestExtract_TrimsResult(t *testing.T) {
	e := New(WithRunner(&mockRunner{output: []byte("\n  body text  \n\f")}))

	got, err := e.Extract(context.Background(), []byte("%PDF-1.4"), "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, "body text", got)
}

func TestExtract_RunnerFailure(t *testing.T) {
	e := New(WithRunner(&mockRunner{err: errors.New("exit status 1")}))

	_, err := e.Extract(context.Background(), []byte("corrupt"), "doc.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().SupportedExtensions())
}
