// Package services implements the application core: the document ingestion
// and retrieval pipeline, retrieval-context assembly, and conversation
// orchestration.
package services
