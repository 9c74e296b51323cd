// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"fmt"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 200

// Chunker splits text into overlapping fixed-size windows. The overlap
// gives a split that lands mid-sentence continuation context in the
// neighbouring chunk.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. An overlap that reaches or exceeds the chunk size
// would never advance the window, so it is rejected here rather than
// discovered as an infinite loop during ingestion.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidInput, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", domain.ErrInvalidInput, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured chunk size in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// Split slices text into ordered chunks. Identical input always yields an
// identical sequence; document identity depends on that.
//
// Text no longer than the chunk size comes back as a single chunk.
// Otherwise each chunk covers [start, start+size) clamped to the text, and
// start advances by size-overlap until it passes the end. The final chunk
// may be shorter than size.
func (c *Chunker) Split(text string) []string {
	if len(text) <= c.size {
		return []string{text}
	}

	estimated := len(text)/(c.size-c.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		start += c.size - c.overlap
	}

	return chunks
}
