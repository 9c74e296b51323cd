package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnsupportedFormat indicates the file extension has no extractor.
	// Uploads must be rejected before any indexing happens.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed indicates a format-specific decoder failed on
	// the file bytes (corrupt or malformed file).
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmptyDocument indicates extraction yielded no text.
	ErrEmptyDocument = errors.New("no text could be extracted from the document")

	// ErrDuplicateDocument indicates the derived document ID already has
	// chunks in the index. Re-ingestion is a conflict, never a silent overwrite.
	ErrDuplicateDocument = errors.New("document already exists")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied indicates the caller's tenant does not own the entity.
	// Never conflated with ErrNotFound; the remediation paths differ.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIndexUnavailable indicates the vector index service is unreachable.
	// Ingestion-path callers must see this; it is not best-effort.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrCompletionFailed indicates the completion engine failed to generate.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
