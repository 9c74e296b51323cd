// Package filesystem watches a local directory and feeds new or changed
// files into the ingestion pipeline.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
	"github.com/aidbot-ai/aidbot/internal/logger"
)

// Watcher ingests supported files from a directory as they appear or change.
type Watcher struct {
	documents driving.DocumentService
	rootPath  string
	tenantID  string
	supported map[string]struct{}
}

// NewWatcher creates a watcher over rootPath for the tenant. extensions
// lists the lower-cased filename extensions worth ingesting; anything else
// is skipped without touching the file.
func NewWatcher(documents driving.DocumentService, rootPath, tenantID string, extensions []string) *Watcher {
	supported := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		supported[strings.ToLower(ext)] = struct{}{}
	}
	return &Watcher{
		documents: documents,
		rootPath:  rootPath,
		tenantID:  tenantID,
		supported: supported,
	}
}

// Run ingests the directory's existing files, then blocks processing
// filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.rootPath)
	if err != nil {
		return fmt.Errorf("watch path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: watch path %q is not a directory", domain.ErrInvalidInput, w.rootPath)
	}

	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.rootPath); err != nil {
		return fmt.Errorf("watching %q: %w", w.rootPath, err)
	}
	logger.Info("Watching %s", w.rootPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestExisting walks the directory once so files present before the
// watch started are not missed.
func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.rootPath)
	if err != nil {
		return fmt.Errorf("reading watch path: %w", err)
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, filepath.Join(w.rootPath, entry.Name()))
	}
	return nil
}

// handleEvent ingests on create and write; removes and renames are left
// alone since the index keys on content, not path.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return
	}
	w.ingest(ctx, event.Name)
}

// ingest uploads one file, treating expected per-file conditions
// (unsupported type, hidden file, already indexed, empty) as skips
// rather than failures.
func (w *Watcher) ingest(ctx context.Context, path string) {
	filename := filepath.Base(path)
	if !w.eligible(filename) {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", filename, err)
		return
	}

	result, err := w.documents.Upload(ctx, content, filename, w.tenantID)
	switch {
	case err == nil:
		logger.Info("Ingested %s (%d chunks)", filename, result.ChunkCount)
	case errors.Is(err, domain.ErrDuplicateDocument):
		logger.Debug("Already indexed: %s", filename)
	case errors.Is(err, domain.ErrEmptyDocument):
		logger.Debug("No extractable text: %s", filename)
	default:
		logger.Warn("Failed to ingest %s: %v", filename, err)
	}
}

// eligible reports whether a filename should be ingested at all.
func (w *Watcher) eligible(filename string) bool {
	if strings.HasPrefix(filename, ".") {
		return false
	}
	_, ok := w.supported[domain.FileType(filename)]
	return ok
}
