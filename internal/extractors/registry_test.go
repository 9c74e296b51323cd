package extractors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

// stubExtractor is a test double for driven.Extractor.
type stubExtractor struct {
	exts []string
	text string
	err  error
}

func (s *stubExtractor) SupportedExtensions() []string { return s.exts }

func (s *stubExtractor) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

func TestRegistry_DispatchesOnExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt"}, text: "plain"})
	r.Register(&stubExtractor{exts: []string{".pdf"}, text: "portable"})

	got, err := r.Extract(context.Background(), []byte("x"), "file.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	got, err = r.Extract(context.Background(), []byte("x"), "file.PDF")
	require.NoError(t, err)
	assert.Equal(t, "portable", got)
}

func TestRegistry_UnknownExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt"}})

	_, err := r.Extract(context.Background(), []byte("x"), "image.png")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".png")
}

func TestRegistry_PropagatesExtractionFailure(t *testing.T) {
	wantErr := errors.New("boom")
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".docx"}, err: wantErr})

	_, err := r.Extract(context.Background(), []byte("x"), "broken.docx")

	assert.ErrorIs(t, err, wantErr)
}

func TestRegistry_SupportedExtensions(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt", ".pdf"}})
	r.Register(&stubExtractor{exts: []string{".docx"}})

	assert.Equal(t, []string{".docx", ".pdf", ".txt"}, r.SupportedExtensions())
}
