// Package memory provides an in-process VectorIndex used by tests and as a
// zero-dependency local mode. Relevance is approximated with lexical token
// overlap instead of embeddings; the contract is otherwise identical to the
// remote index.
package memory

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// record is one stored chunk row.
type record struct {
	id       string
	document string
	metadata map[string]any
}

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu      sync.RWMutex
	records []record
}

// New creates a new in-memory index.
func New() *Index {
	return &Index{}
}

// Add bulk-inserts chunk texts with their IDs and metadata.
func (x *Index) Add(_ context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for i, id := range ids {
		rec := record{id: id}
		if i < len(documents) {
			rec.document = documents[i]
		}
		if i < len(metadatas) {
			rec.metadata = metadatas[i]
		}
		x.records = append(x.records, rec)
	}
	return nil
}

// Get returns all records whose metadata matches the filter exactly.
func (x *Index) Get(_ context.Context, filter driven.Filter) ([]driven.Record, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]driven.Record, 0)
	for _, rec := range x.records {
		if matches(rec.metadata, filter) {
			out = append(out, driven.Record{ID: rec.id, Document: rec.document, Metadata: rec.metadata})
		}
	}
	return out, nil
}

// Query ranks matching records by lexical distance to the query text,
// nearest first, and returns at most topK of them.
func (x *Index) Query(_ context.Context, text string, topK int, filter driven.Filter) ([]driven.QueryHit, error) {
	if topK <= 0 {
		topK = 5
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	qset := tokenSet(text)

	type scored struct {
		rec      record
		distance float64
	}
	var candidates []scored
	for _, rec := range x.records {
		if !matches(rec.metadata, filter) {
			continue
		}
		candidates = append(candidates, scored{rec: rec, distance: 1 - overlapOchiai(qset, rec.document)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if topK < len(candidates) {
		candidates = candidates[:topK]
	}

	hits := make([]driven.QueryHit, 0, len(candidates))
	for _, c := range candidates {
		d := c.distance
		hits = append(hits, driven.QueryHit{
			Document: c.rec.document,
			Metadata: c.rec.metadata,
			Distance: &d,
		})
	}
	return hits, nil
}

// Delete removes the records with the given IDs.
func (x *Index) Delete(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	kept := x.records[:0]
	for _, rec := range x.records {
		if _, ok := drop[rec.id]; !ok {
			kept = append(kept, rec)
		}
	}
	x.records = kept
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// matches reports whether metadata satisfies every exact-match condition.
func matches(metadata map[string]any, filter driven.Filter) bool {
	for k, want := range filter {
		got, ok := metadata[k].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// tokenSet lower-cases and tokenises text into a set of words.
func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai scores token overlap between a query set and a document:
// |A∩B| / sqrt(|A||B|), in [0, 1].
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	dset := tokenSet(text)
	if len(qset) == 0 || len(dset) == 0 {
		return 0
	}
	inter := 0
	for t := range dset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(dset))))
}
