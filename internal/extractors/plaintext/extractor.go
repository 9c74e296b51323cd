// Package plaintext extracts text from UTF-8 text files.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files. Undecodable bytes are dropped
// rather than failing the upload.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt"}
}

// Extract decodes the raw bytes as UTF-8, dropping invalid sequences,
// and trims surrounding whitespace.
func (e *Extractor) Extract(_ context.Context, content []byte, _ string) (string, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	return strings.TrimSpace(text), nil
}
