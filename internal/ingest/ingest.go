// Package ingest loads documentation sources, chunks them, and writes
// the embedded chunks to the knowledge store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/chunk"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/document"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
)

// ErrIngestInProgress indicates another process holds the ingestion
// lock.
var ErrIngestInProgress = errors.New("another ingestion is already running")

// embedBatchSize bounds how many chunks go to the embedder per call.
const embedBatchSize = 32

// Store is the slice of the knowledge store the ingestor depends on.
type Store interface {
	AddBatch(ctx context.Context, chunks []knowledge.Chunk) error
	DeleteBySource(ctx context.Context, source string) (int, error)
}

// IndexResult summarizes one ingestion run.
type IndexResult struct {
	FilesAdded   int
	FilesSkipped int
	FilesFailed  int
	ChunksAdded  int
	Duration     time.Duration
}

// Config carries the ingestion knobs.
type Config struct {
	SkipPages         int    // leading PDF pages to drop
	SectionTokenLimit int    // sections under this stay whole
	LockPath          string // cross-process lock file, "" for default
}

// Ingestor loads, chunks and stores documents. A file lock serializes
// runs across processes so re-ingestion never interleaves.
type Ingestor struct {
	store    Store
	splitter *chunk.Splitter
	cfg      Config
	logger   *slog.Logger
}

// New creates an Ingestor.
func New(store Store, splitter *chunk.Splitter, cfg Config, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LockPath == "" {
		cfg.LockPath = filepath.Join(os.TempDir(), "gamedev-rag-ingest.lock")
	}
	return &Ingestor{
		store:    store,
		splitter: splitter,
		cfg:      cfg,
		logger:   logger,
	}
}

// IngestFile ingests a single local file, replacing any chunks
// previously stored for the same source.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (*IndexResult, error) {
	unlock, err := in.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	start := time.Now()
	result := &IndexResult{}
	runID := uuid.NewString()

	doc, err := document.LoadFile(path, in.cfg.SkipPages)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	added, err := in.storeDocument(ctx, doc, runID)
	if err != nil {
		return nil, err
	}

	result.FilesAdded = 1
	result.ChunksAdded = added
	result.Duration = time.Since(start)
	return result, nil
}

// IngestDirectory walks dir and ingests every supported file. A file
// that fails to load or store is counted and skipped; the walk
// continues.
func (in *Ingestor) IngestDirectory(ctx context.Context, dir string) (*IndexResult, error) {
	unlock, err := in.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	start := time.Now()
	result := &IndexResult{}
	runID := uuid.NewString()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	err = filepath.Walk(absDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			result.FilesFailed++
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !document.SupportedExtensions[ext] {
			result.FilesSkipped++
			return nil
		}

		doc, err := document.LoadFile(path, in.cfg.SkipPages)
		if err != nil {
			in.logger.Warn("skipping file", "path", path, "error", err)
			result.FilesFailed++
			return nil
		}

		added, err := in.storeDocument(ctx, doc, runID)
		if err != nil {
			in.logger.Warn("failed to store file", "path", path, "error", err)
			result.FilesFailed++
			return nil
		}

		result.FilesAdded++
		result.ChunksAdded += added
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absDir, err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// IngestURL fetches a blog post and ingests its readable content.
func (in *Ingestor) IngestURL(ctx context.Context, pageURL string) (*IndexResult, error) {
	unlock, err := in.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	start := time.Now()
	result := &IndexResult{}
	runID := uuid.NewString()

	doc, err := document.LoadURL(pageURL)
	if err != nil {
		return nil, err
	}

	added, err := in.storeDocument(ctx, doc, runID)
	if err != nil {
		return nil, err
	}

	result.FilesAdded = 1
	result.ChunksAdded = added
	result.Duration = time.Since(start)
	return result, nil
}

// storeDocument chunks one loaded document and writes it, replacing any
// previous chunks for the same source first so re-ingestion never
// leaves stale rows behind.
func (in *Ingestor) storeDocument(ctx context.Context, doc *document.Document, runID string) (int, error) {
	sections := document.SplitSections(doc.Text)
	chunks := in.splitter.ChunkSections(doc, sections, in.cfg.SectionTokenLimit)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s produced no chunks", doc.Source)
	}

	now := time.Now()
	records := make([]knowledge.Chunk, len(chunks))
	for i, c := range chunks {
		records[i] = knowledge.Chunk{
			ID:         c.ID(),
			DocumentID: c.DocumentID,
			Source:     c.Source,
			Section:    c.Section,
			Position:   c.Position,
			Content:    c.Text,
			Metadata: map[string]string{
				"run_id":      runID,
				"title":       doc.Title,
				"source_type": doc.SourceType,
				"indexed_at":  now.Format(time.RFC3339),
			},
			CreatedAt: now,
		}
	}

	deleted, err := in.store.DeleteBySource(ctx, doc.Source)
	if err != nil {
		return 0, fmt.Errorf("removing previous chunks for %s: %w", doc.Source, err)
	}
	if deleted > 0 {
		in.logger.Debug("replaced previous ingestion", "source", doc.Source, "old_chunks", deleted)
	}

	for batchStart := 0; batchStart < len(records); batchStart += embedBatchSize {
		end := min(batchStart+embedBatchSize, len(records))
		if err := in.store.AddBatch(ctx, records[batchStart:end]); err != nil {
			return 0, fmt.Errorf("storing chunks for %s: %w", doc.Source, err)
		}
	}

	in.logger.Info("ingested document",
		"source", doc.Source,
		"sections", len(sections),
		"chunks", len(records),
	)
	return len(records), nil
}

// acquireLock takes the cross-process ingestion lock without blocking.
func (in *Ingestor) acquireLock() (func(), error) {
	lock := flock.New(in.cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring ingest lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrIngestInProgress, in.cfg.LockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			in.logger.Warn("failed to release ingest lock", "error", err)
		}
	}, nil
}
