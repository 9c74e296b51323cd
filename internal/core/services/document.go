package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aidbot-ai/aidbot/internal/chunker"
	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
	"github.com/aidbot-ai/aidbot/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Metadata keys stored on every chunk in the vector index.
const (
	metaDocID       = "doc_id"
	metaTenantID    = "tenant_id"
	metaFilename    = "filename"
	metaFileType    = "file_type"
	metaChunkIndex  = "chunk_index"
	metaTotalChunks = "total_chunks"
)

// DocumentService runs the ingestion pipeline (extract, identify, dedup,
// chunk, index) and the delete/list/search operations over the index.
type DocumentService struct {
	extractors     driven.ExtractorRegistry
	chunker        *chunker.Chunker
	index          driven.VectorIndex
	identityPrefix int

	// inflight guards the check-then-insert sequence per document ID so
	// two concurrent uploads of the same content cannot both pass the
	// existence check. The external index has no conditional insert.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewDocumentService creates a new document service.
// identityPrefix is the number of leading text characters hashed into the
// document ID; zero or negative selects whole-document hashing.
func NewDocumentService(
	extractors driven.ExtractorRegistry,
	ch *chunker.Chunker,
	index driven.VectorIndex,
	identityPrefix int,
) *DocumentService {
	return &DocumentService{
		extractors:     extractors,
		chunker:        ch,
		index:          index,
		identityPrefix: identityPrefix,
		inflight:       make(map[string]struct{}),
	}
}

// Upload extracts, chunks and indexes a document for the tenant.
func (s *DocumentService) Upload(ctx context.Context, content []byte, filename, tenantID string) (*driving.UploadResult, error) {
	logger.Section("Document Upload")
	logger.Debug("Filename: %q, tenant: %q, %d bytes", filename, tenantID, len(content))

	text, err := s.extractors.Extract(ctx, content, filename)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, domain.ErrEmptyDocument
	}
	logger.Debug("Extracted %d characters", len(text))

	docID := domain.DocumentID(filename, text, s.identityPrefix)
	logger.Debug("Document ID: %s", docID)

	if !s.acquire(docID) {
		return nil, fmt.Errorf("%w: ingestion already in progress for this content", domain.ErrDuplicateDocument)
	}
	defer s.release(docID)

	existing, err := s.index.Get(ctx, driven.Filter{metaDocID: docID})
	if err != nil {
		return nil, fmt.Errorf("checking for existing document: %w", err)
	}
	if len(existing) > 0 {
		return nil, domain.ErrDuplicateDocument
	}

	chunks := s.chunker.Split(text)
	fileType := domain.FileType(filename)

	ids := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	for i := range chunks {
		ids[i] = domain.ChunkID(docID, i)
		metadatas[i] = map[string]any{
			metaDocID:       docID,
			metaTenantID:    tenantID,
			metaFilename:    filename,
			metaFileType:    fileType,
			metaChunkIndex:  i,
			metaTotalChunks: len(chunks),
		}
	}

	if err := s.index.Add(ctx, ids, chunks, metadatas); err != nil {
		return nil, fmt.Errorf("indexing chunks: %w", err)
	}
	logger.Info("Indexed %q as %d chunks", filename, len(chunks))

	return &driving.UploadResult{
		DocID:           docID,
		Filename:        filename,
		ChunkCount:      len(chunks),
		TotalCharacters: len(text),
	}, nil
}

// Delete removes a document and all its chunks. Ownership is checked
// against the first matching chunk; sibling chunks share one tenant by
// construction.
func (s *DocumentService) Delete(ctx context.Context, docID, tenantID string) (*driving.DeleteResult, error) {
	records, err := s.index.Get(ctx, driven.Filter{metaDocID: docID})
	if err != nil {
		return nil, fmt.Errorf("looking up document: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}

	if tenantID != "" {
		owner, _ := records[0].Metadata[metaTenantID].(string)
		if owner != tenantID {
			return nil, domain.ErrPermissionDenied
		}
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	if err := s.index.Delete(ctx, ids); err != nil {
		return nil, fmt.Errorf("deleting chunks: %w", err)
	}
	logger.Info("Deleted document %s (%d chunks)", docID, len(ids))

	return &driving.DeleteResult{DocID: docID, ChunksDeleted: len(ids)}, nil
}

// List returns one summary per distinct document, deduplicating the
// index's chunk rows client-side.
func (s *DocumentService) List(ctx context.Context, tenantID string) ([]domain.Document, error) {
	filter := driven.Filter{}
	if tenantID != "" {
		filter[metaTenantID] = tenantID
	}

	records, err := s.index.Get(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	seen := make(map[string]domain.Document)
	for _, rec := range records {
		docID, _ := rec.Metadata[metaDocID].(string)
		if docID == "" {
			continue
		}
		if _, ok := seen[docID]; ok {
			continue
		}
		doc := domain.Document{DocID: docID}
		doc.Filename, _ = rec.Metadata[metaFilename].(string)
		doc.FileType, _ = rec.Metadata[metaFileType].(string)
		doc.TenantID, _ = rec.Metadata[metaTenantID].(string)
		doc.TotalChunks = metadataInt(rec.Metadata, metaTotalChunks)
		seen[docID] = doc
	}

	documents := make([]domain.Document, 0, len(seen))
	for _, doc := range seen {
		documents = append(documents, doc)
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Filename < documents[j].Filename
	})
	return documents, nil
}

// Search returns up to topK passages relevant to the query, nearest first.
func (s *DocumentService) Search(ctx context.Context, query, tenantID string, topK int) ([]domain.RetrievedPassage, error) {
	filter := driven.Filter{}
	if tenantID != "" {
		filter[metaTenantID] = tenantID
	}

	hits, err := s.index.Query(ctx, query, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}

	passages := make([]domain.RetrievedPassage, 0, len(hits))
	for _, hit := range hits {
		passage := domain.RetrievedPassage{
			Content:  hit.Document,
			Metadata: hit.Metadata,
			Distance: hit.Distance,
		}
		passage.SourceFilename, _ = hit.Metadata[metaFilename].(string)
		passages = append(passages, passage)
	}
	return passages, nil
}

// acquire claims exclusive ingestion rights for a document ID.
func (s *DocumentService) acquire(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[docID]; ok {
		return false
	}
	s.inflight[docID] = struct{}{}
	return true
}

// release gives up the ingestion claim for a document ID.
func (s *DocumentService) release(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, docID)
}

// metadataInt reads an integer metadata value, tolerating the float64
// that JSON decoding produces.
func metadataInt(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
