package driven

import "context"

// Filter is an exact-match metadata equality filter. No range or fuzzy
// matching is required by the core.
type Filter map[string]string

// Record is a stored chunk row returned from a filtered get.
type Record struct {
	// ID is the chunk identifier.
	ID string

	// Document is the chunk text.
	Document string

	// Metadata is the chunk's stored metadata.
	Metadata map[string]any
}

// QueryHit is a nearest-neighbour match for a text query.
type QueryHit struct {
	// Document is the matched chunk text.
	Document string

	// Metadata is the chunk's stored metadata.
	Metadata map[string]any

	// Distance is the similarity distance, lower is nearer.
	// Nil when the backing index does not report distances.
	Distance *float64
}

// VectorIndex is the contract to the external vector index service.
// It owns embedding generation and nearest-neighbour search; the core never
// touches raw vectors. Implementations must be safe for concurrent use and
// must return empty (not error) results when nothing matches.
type VectorIndex interface {
	// Add bulk-inserts chunk texts with their IDs and metadata.
	// The three slices are parallel and must have equal length.
	Add(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error

	// Get returns all records whose metadata matches the filter exactly.
	Get(ctx context.Context, filter Filter) ([]Record, error)

	// Query returns up to topK records nearest to the query text,
	// ordered by ascending distance, restricted by the optional filter.
	Query(ctx context.Context, text string, topK int, filter Filter) ([]QueryHit, error)

	// Delete removes the records with the given IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases resources.
	Close() error
}
