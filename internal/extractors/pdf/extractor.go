// Package pdf extracts text from PDF documents via the poppler
// pdftotext utility.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// CommandRunner executes an external command and returns its stdout.
// It exists so tests can substitute the pdftotext invocation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents by shelling out to pdftotext.
type Extractor struct {
	runner CommandRunner
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner substitutes the command runner.
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// New creates a new PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{runner: execRunner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract converts the PDF bytes to text. pdftotext separates pages with
// form feeds; those become newlines so the result reads as page text in
// document order, one page per line break, trimmed.
func (e *Extractor) Extract(ctx context.Context, content []byte, _ string) (string, error) {
	tmp, err := os.CreateTemp("", "aidbot-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %v", domain.ErrExtractionFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: writing temp file: %v", domain.ErrExtractionFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing temp file: %v", domain.ErrExtractionFailed, err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", filepath.Clean(tmp.Name()), "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", domain.ErrExtractionFailed, err)
	}

	text := strings.ReplaceAll(string(out), "\f", "\n")
	return strings.TrimSpace(text), nil
}
