package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction purely on the filename's extension.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor for each of its supported extensions.
// A later registration for the same extension wins.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range extractor.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = extractor
	}
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract runs the extractor registered for the filename's extension.
func (r *Registry) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	ext := domain.FileType(filename)

	r.mu.RLock()
	extractor, ok := r.byExt[ext]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return extractor.Extract(ctx, content, filename)
}
