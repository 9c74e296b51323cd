package driving

import (
	"context"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

// DocumentService manages document ingestion, deletion, listing and retrieval.
type DocumentService interface {
	// Upload extracts, chunks and indexes a document for the tenant.
	Upload(ctx context.Context, content []byte, filename, tenantID string) (*UploadResult, error)

	// Delete removes a document and all its chunks.
	// An empty tenantID skips the ownership check.
	Delete(ctx context.Context, docID, tenantID string) (*DeleteResult, error)

	// List returns one summary per distinct document.
	// An empty tenantID lists documents across all tenants.
	List(ctx context.Context, tenantID string) ([]domain.Document, error)

	// Search returns up to topK passages relevant to the query,
	// nearest first. No matches is an empty slice, not an error.
	Search(ctx context.Context, query, tenantID string, topK int) ([]domain.RetrievedPassage, error)
}

// UploadResult reports a successful ingestion.
type UploadResult struct {
	DocID           string
	Filename        string
	ChunkCount      int
	TotalCharacters int
}

// DeleteResult reports a successful deletion.
type DeleteResult struct {
	DocID         string
	ChunksDeleted int
}
