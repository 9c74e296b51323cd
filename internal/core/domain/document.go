package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultIdentityPrefix is the number of leading characters of extracted
// text that participate in document identity derivation.
const DefaultIdentityPrefix = 1000

// Document summarises an ingested document. The document itself is never
// stored as a row anywhere; it is reconstructed from the metadata carried
// by its chunks in the vector index.
type Document struct {
	// DocID is the deterministic content-based identifier.
	DocID string

	// Filename is the name the document was uploaded under.
	Filename string

	// FileType is the lower-cased filename extension, including the dot.
	FileType string

	// TenantID is the owning tenant.
	TenantID string

	// TotalChunks is the number of chunks the document was split into.
	TotalChunks int

	// TotalCharacters is the length of the extracted text.
	TotalCharacters int
}

// Chunk is the unit of indexing and retrieval: a bounded substring of a
// document's extracted text. Chunks are immutable once written; a document's
// chunk set is only ever replaced by full delete + full re-ingest.
type Chunk struct {
	// ID is DocID plus a zero-based ordinal.
	ID string

	// DocID links to the owning document.
	DocID string

	// TenantID is the owning tenant, identical across all sibling chunks.
	TenantID string

	// Filename and FileType mirror the parent document.
	Filename string
	FileType string

	// Content is the chunk text, at most the configured chunk size.
	Content string

	// Index is the zero-based position within the document.
	Index int

	// TotalChunks is the sibling count.
	TotalChunks int
}

// RetrievedPassage is an ephemeral per-query result. It is never persisted.
type RetrievedPassage struct {
	// Content is the matched chunk text.
	Content string

	// SourceFilename is the filename of the chunk's document.
	SourceFilename string

	// Metadata carries the chunk's index metadata verbatim.
	Metadata map[string]any

	// Distance is the similarity score, lower is more relevant.
	// Nil when the index does not report distances.
	Distance *float64
}

// DocumentID derives the stable content-based identifier for a document:
// a sha256 hex digest of the filename and the first prefixLen characters of
// the extracted text. prefixLen <= 0 hashes the whole text.
//
// Hashing only a prefix is a deliberate trade-off: identity checks stay cheap,
// at the cost of treating large documents that differ only after the prefix
// as duplicates.
func DocumentID(filename, text string, prefixLen int) string {
	if prefixLen > 0 && len(text) > prefixLen {
		text = text[:prefixLen]
	}
	sum := sha256.Sum256([]byte(filename + ":" + text))
	return hex.EncodeToString(sum[:])
}

// ChunkID builds the identifier for the chunk at the given ordinal.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, index)
}

// FileType returns the lower-cased extension of a filename, including the dot.
func FileType(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
