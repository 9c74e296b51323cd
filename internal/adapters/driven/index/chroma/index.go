// Package chroma provides a VectorIndex adapter backed by the ChromaDB
// HTTP API. Chroma owns embedding generation and nearest-neighbour search;
// this client only moves texts, metadata and filters across the wire.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultCollection = "documents"
	DefaultTimeout    = 30 * time.Second
)

// Config holds connection details for a Chroma server.
type Config struct {
	// BaseURL is the server address (default: http://localhost:8000).
	BaseURL string

	// Collection is the collection name (default: documents).
	Collection string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Index is a REST client for one Chroma collection.
// The collection is created on first use with cosine distance.
type Index struct {
	client     *http.Client
	baseURL    string
	collection string

	mu           sync.Mutex
	collectionID string
}

// New creates a new Chroma index client.
func New(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
	}
}

// collectionResponse is the Chroma collection create/get response.
type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ensureCollection resolves the collection ID, creating the collection if
// it does not exist yet. The ID is cached after the first round trip.
func (x *Index) ensureCollection(ctx context.Context) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.collectionID != "" {
		return x.collectionID, nil
	}

	body := map[string]any{
		"name":          x.collection,
		"get_or_create": true,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
	}
	var resp collectionResponse
	if err := x.post(ctx, "/api/v1/collections", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: collection create returned no id", domain.ErrIndexUnavailable)
	}

	x.collectionID = resp.ID
	return x.collectionID, nil
}

// Add bulk-inserts chunk texts with their IDs and metadata.
func (x *Index) Add(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: ids, documents and metadatas must have equal length", domain.ErrInvalidInput)
	}
	if len(ids) == 0 {
		return nil
	}

	coll, err := x.ensureCollection(ctx)
	if err != nil {
		return err
	}

	body := map[string]any{
		"ids":       ids,
		"documents": documents,
		"metadatas": metadatas,
	}
	return x.post(ctx, fmt.Sprintf("/api/v1/collections/%s/add", coll), body, nil)
}

// getResponse is the Chroma get response.
type getResponse struct {
	IDs       []string         `json:"ids"`
	Documents []*string        `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

// Get returns all records whose metadata matches the filter exactly.
func (x *Index) Get(ctx context.Context, filter driven.Filter) ([]driven.Record, error) {
	coll, err := x.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"include": []string{"documents", "metadatas"},
	}
	if where := buildWhere(filter); where != nil {
		body["where"] = where
	}

	var resp getResponse
	if err := x.post(ctx, fmt.Sprintf("/api/v1/collections/%s/get", coll), body, &resp); err != nil {
		return nil, err
	}

	records := make([]driven.Record, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		rec := driven.Record{ID: id}
		if i < len(resp.Documents) && resp.Documents[i] != nil {
			rec.Document = *resp.Documents[i]
		}
		if i < len(resp.Metadatas) {
			rec.Metadata = resp.Metadatas[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// queryResponse is the Chroma query response. Results are nested per
// query text; this client always sends exactly one.
type queryResponse struct {
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Query returns up to topK records nearest to the query text, nearest first.
func (x *Index) Query(ctx context.Context, text string, topK int, filter driven.Filter) ([]driven.QueryHit, error) {
	if topK <= 0 {
		topK = 5
	}

	coll, err := x.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_texts": []string{text},
		"n_results":   topK,
		"include":     []string{"documents", "metadatas", "distances"},
	}
	if where := buildWhere(filter); where != nil {
		body["where"] = where
	}

	var resp queryResponse
	if err := x.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", coll), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Documents) == 0 {
		return []driven.QueryHit{}, nil
	}

	docs := resp.Documents[0]
	hits := make([]driven.QueryHit, 0, len(docs))
	for i, doc := range docs {
		hit := driven.QueryHit{Document: doc}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			d := resp.Distances[0][i]
			hit.Distance = &d
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Delete removes the records with the given IDs.
func (x *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	coll, err := x.ensureCollection(ctx)
	if err != nil {
		return err
	}

	body := map[string]any{"ids": ids}
	return x.post(ctx, fmt.Sprintf("/api/v1/collections/%s/delete", coll), body, nil)
}

// Close releases resources.
func (x *Index) Close() error {
	x.client.CloseIdleConnections()
	return nil
}

// buildWhere converts an exact-match filter into Chroma's where clause.
// Multiple conditions are combined with $and.
func buildWhere(filter driven.Filter) map[string]any {
	if len(filter) == 0 {
		return nil
	}
	if len(filter) == 1 {
		for k, v := range filter {
			return map[string]any{k: v}
		}
	}
	conds := make([]map[string]any, 0, len(filter))
	for k, v := range filter {
		conds = append(conds, map[string]any{k: v})
	}
	return map[string]any{"$and": conds}
}

// post sends a JSON request and decodes the JSON response into out.
// Transport failures surface as domain.ErrIndexUnavailable so ingestion
// callers can propagate them distinctly.
func (x *Index) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: chroma POST %s: %s", domain.ErrIndexUnavailable, path, resp.Status)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chroma POST %s: %s", path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
