package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
	"github.com/aidbot-ai/aidbot/internal/logger"
)

// DefaultContextPassages is the number of passages retrieved per chat turn.
const DefaultContextPassages = 3

// contextHeader opens every assembled context block.
const contextHeader = "Relevant information from your documents:\n\n"

// ContextAssembler turns a query and tenant into a bounded, ranked context
// string for prompt grounding. It is read-only over the index.
type ContextAssembler struct {
	index driven.VectorIndex
	topK  int
}

// NewContextAssembler creates a new context assembler.
// topK <= 0 falls back to DefaultContextPassages.
func NewContextAssembler(index driven.VectorIndex, topK int) *ContextAssembler {
	if topK <= 0 {
		topK = DefaultContextPassages
	}
	return &ContextAssembler{index: index, topK: topK}
}

// Assemble retrieves the nearest passages for the query and renders them as
// a numbered source list. Retrieval is best-effort relative to generation:
// an index failure or an empty result returns ("", false) so the caller can
// take the visible ungrounded branch instead of failing the chat turn.
//
// Entry order follows the index's ranking; the assembler never re-ranks.
func (a *ContextAssembler) Assemble(ctx context.Context, query, tenantID string) (string, bool) {
	filter := driven.Filter{}
	if tenantID != "" {
		filter[metaTenantID] = tenantID
	}

	hits, err := a.index.Query(ctx, query, a.topK, filter)
	if err != nil {
		logger.Warn("Context retrieval failed, answering ungrounded: %v", err)
		return "", false
	}
	if len(hits) == 0 {
		logger.Debug("No passages retrieved for query")
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(contextHeader)
	for i, hit := range hits {
		filename, _ := hit.Metadata[metaFilename].(string)
		fmt.Fprintf(&sb, "[Source %d: %s]\n%s\n\n", i+1, filename, hit.Document)
	}
	logger.Debug("Assembled context from %d passages", len(hits))
	return sb.String(), true
}
