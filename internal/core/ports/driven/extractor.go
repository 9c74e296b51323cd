package driven

import "context"

// Extractor converts raw file bytes into plain text.
// Each extractor handles specific filename extensions (e.g. .pdf, .docx).
// Extraction is a pure transformation with no side effects.
type Extractor interface {
	// SupportedExtensions returns the lower-cased extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract converts file bytes into whitespace-trimmed plain text.
	// A corrupt file surfaces as domain.ErrExtractionFailed.
	Extract(ctx context.Context, content []byte, filename string) (string, error)
}

// ExtractorRegistry dispatches extraction on the filename's extension.
type ExtractorRegistry interface {
	// Extract selects the extractor for the filename's extension and runs it.
	// Unknown extensions surface as domain.ErrUnsupportedFormat.
	Extract(ctx context.Context, content []byte, filename string) (string, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedExtensions returns all extensions that can be extracted.
	SupportedExtensions() []string
}
