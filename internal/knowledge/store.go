// Package knowledge stores embedded document chunks in PostgreSQL with
// pgvector and answers similarity queries over them.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

var (
	// ErrEmbed indicates the embedding provider failed or returned an
	// empty vector.
	ErrEmbed = errors.New("embedding generation failed")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the dimension the chunks table was created with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Querier defines the database operations Store needs. The interface is
// defined here, by the consumer, so tests can substitute a mock and the
// pgx implementation stays swappable.
type Querier interface {
	UpsertChunk(ctx context.Context, arg UpsertChunkParams) error
	SearchChunks(ctx context.Context, arg SearchChunksParams) ([]ChunkRow, error)
	CountChunks(ctx context.Context) (int64, error)
	ListSections(ctx context.Context) ([]string, error)
	ListSources(ctx context.Context) ([]SourceRow, error)
	DeleteChunksBySource(ctx context.Context, source string) (int64, error)
	DeleteAllChunks(ctx context.Context) error
}

// Store manages embedded chunks with vector search over pgvector.
// Safe for concurrent use.
type Store struct {
	queries   Querier
	embedder  ai.Embedder
	dimension int
	logger    *slog.Logger
}

// New creates a Store. dimension must match the vector column width of
// the chunks table.
func New(querier Querier, embedder ai.Embedder, dimension int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		queries:   querier,
		embedder:  embedder,
		dimension: dimension,
		logger:    logger,
	}
}

// Add embeds a single chunk and upserts it.
func (s *Store) Add(ctx context.Context, chunk Chunk) error {
	return s.AddBatch(ctx, []Chunk{chunk})
}

// AddBatch embeds chunks in one provider call and upserts them in order.
// Every vector is checked against the configured dimension before any
// row is written.
func (s *Store) AddBatch(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	input := make([]*ai.Document, len(chunks))
	for i, c := range chunks {
		input[i] = ai.DocumentFromText(c.Content, nil)
	}

	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{Input: input})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmbed, err)
	}
	if len(resp.Embeddings) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks", ErrEmbed, len(resp.Embeddings), len(chunks))
	}

	vectors := make([]pgvector.Vector, len(chunks))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) != s.dimension {
			return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(emb.Embedding), s.dimension)
		}
		vectors[i] = pgvector.NewVector(emb.Embedding)
	}

	for i, c := range chunks {
		metadataJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for chunk %q: %w", c.ID, err)
		}

		err = s.queries.UpsertChunk(ctx, UpsertChunkParams{
			ID:         c.ID,
			DocumentID: c.DocumentID,
			Source:     c.Source,
			Section:    c.Section,
			Position:   int32(c.Position),
			Content:    c.Content,
			Embedding:  &vectors[i],
			Metadata:   metadataJSON,
			CreatedAt:  pgtype.Timestamptz{Time: c.CreatedAt, Valid: !c.CreatedAt.IsZero()},
		})
		if err != nil {
			return fmt.Errorf("upserting chunk %q: %w", c.ID, err)
		}
	}

	s.logger.Debug("stored chunks", "count", len(chunks), "source", chunks[0].Source)
	return nil
}

// Search embeds the query and returns the most similar chunks ordered by
// similarity. Ties resolve in insertion order. A per-search timeout
// bounds both the embedding call and the vector query.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	resp, err := s.embedder.Embed(queryCtx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(query, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbed, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding for query", ErrEmbed)
	}
	if len(resp.Embeddings[0].Embedding) != s.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(resp.Embeddings[0].Embedding), s.dimension)
	}

	queryVector := pgvector.NewVector(resp.Embeddings[0].Embedding)
	rows, err := s.queries.SearchChunks(queryCtx, SearchChunksParams{
		QueryEmbedding: &queryVector,
		Section:        cfg.section,
		ResultLimit:    int32(cfg.topK),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search query timeout: %w", err)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		if row.Similarity < cfg.minScore {
			continue
		}
		results = append(results, Result{
			Chunk:      s.rowToChunk(row),
			Similarity: row.Similarity,
		})
	}
	return results, nil
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.queries.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	if count > math.MaxInt {
		return 0, fmt.Errorf("chunk count %d exceeds platform int capacity", count)
	}
	return int(count), nil
}

// ListSections returns the distinct non-empty section headings in store
// order of first appearance.
func (s *Store) ListSections(ctx context.Context) ([]string, error) {
	sections, err := s.queries.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	return sections, nil
}

// SourceInfo summarizes one ingested source.
type SourceInfo struct {
	Source     string
	ChunkCount int
}

// ListSources returns every ingested source with its chunk count.
func (s *Store) ListSources(ctx context.Context) ([]SourceInfo, error) {
	rows, err := s.queries.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	infos := make([]SourceInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, SourceInfo{Source: row.Source, ChunkCount: int(row.ChunkCount)})
	}
	return infos, nil
}

// DeleteBySource removes every chunk ingested from the given source and
// reports how many rows were removed.
func (s *Store) DeleteBySource(ctx context.Context, source string) (int, error) {
	deleted, err := s.queries.DeleteChunksBySource(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks for %q: %w", source, err)
	}
	if deleted > 0 {
		s.logger.Debug("deleted chunks", "source", source, "count", deleted)
	}
	return int(deleted), nil
}

// DeleteAll empties the store.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.queries.DeleteAllChunks(ctx); err != nil {
		return fmt.Errorf("deleting all chunks: %w", err)
	}
	s.logger.Debug("deleted all chunks")
	return nil
}

func (s *Store) rowToChunk(row ChunkRow) Chunk {
	var metadata map[string]string
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			s.logger.Warn("failed to parse chunk metadata", "chunk_id", row.ID, "error", err)
		}
	}

	c := Chunk{
		ID:         row.ID,
		DocumentID: row.DocumentID,
		Source:     row.Source,
		Section:    row.Section,
		Position:   int(row.Position),
		Content:    row.Content,
		Metadata:   metadata,
	}
	if row.CreatedAt.Valid {
		c.CreatedAt = row.CreatedAt.Time
	}
	return c
}
