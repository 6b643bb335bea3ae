package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

// DBTX is the subset of pgxpool.Pool the queries need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the pgx-backed implementation of Querier.
type Queries struct {
	db DBTX
}

// NewQueries wraps a connection pool.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// UpsertChunkParams carries one row for insert-or-update.
type UpsertChunkParams struct {
	ID         string
	DocumentID string
	Source     string
	Section    string
	Position   int32
	Content    string
	Embedding  *pgvector.Vector
	Metadata   []byte
	CreatedAt  pgtype.Timestamptz
}

// SearchChunksParams carries a vector search request. An empty Section
// searches the whole store.
type SearchChunksParams struct {
	QueryEmbedding *pgvector.Vector
	Section        string
	ResultLimit    int32
}

// ChunkRow is one row returned by SearchChunks.
type ChunkRow struct {
	ID         string
	DocumentID string
	Source     string
	Section    string
	Position   int32
	Content    string
	Metadata   []byte
	CreatedAt  pgtype.Timestamptz
	Similarity float32
}

// SourceRow is one row returned by ListSources.
type SourceRow struct {
	Source     string
	ChunkCount int64
}

const upsertChunkSQL = `
INSERT INTO chunks (id, document_id, source, section, position, content, embedding, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
ON CONFLICT (id) DO UPDATE SET
    document_id = EXCLUDED.document_id,
    source = EXCLUDED.source,
    section = EXCLUDED.section,
    position = EXCLUDED.position,
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    metadata = EXCLUDED.metadata,
    created_at = EXCLUDED.created_at`

// UpsertChunk inserts or replaces one chunk row. An invalid CreatedAt
// encodes as NULL and defaults to now() server-side.
func (q *Queries) UpsertChunk(ctx context.Context, arg UpsertChunkParams) error {
	_, err := q.db.Exec(ctx, upsertChunkSQL,
		arg.ID, arg.DocumentID, arg.Source, arg.Section, arg.Position,
		arg.Content, arg.Embedding, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert chunk: %w", err)
	}
	return nil
}

// Ties on distance resolve by seq so repeated queries return a stable
// order.
const searchChunksSQL = `
SELECT id, document_id, source, section, position, content, metadata, created_at,
       1 - (embedding <=> $1) AS similarity
FROM chunks
WHERE ($2 = '' OR section = $2)
ORDER BY embedding <=> $1, seq ASC
LIMIT $3`

// SearchChunks runs a cosine-similarity search.
func (q *Queries) SearchChunks(ctx context.Context, arg SearchChunksParams) ([]ChunkRow, error) {
	rows, err := q.db.Query(ctx, searchChunksSQL, arg.QueryEmbedding, arg.Section, arg.ResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var results []ChunkRow
	for rows.Next() {
		var r ChunkRow
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.Source, &r.Section, &r.Position,
			&r.Content, &r.Metadata, &r.CreatedAt, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return results, nil
}

// CountChunks returns the total row count.
func (q *Queries) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	if err := q.db.QueryRow(ctx, `SELECT count(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

const listSectionsSQL = `
SELECT section
FROM chunks
WHERE section <> ''
GROUP BY section
ORDER BY min(seq)`

// ListSections returns distinct headings ordered by first ingestion.
func (q *Queries) ListSections(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listSectionsSQL)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}
	return sections, nil
}

const listSourcesSQL = `
SELECT source, count(*) AS chunk_count
FROM chunks
GROUP BY source
ORDER BY min(seq)`

// ListSources returns each source with its chunk count.
func (q *Queries) ListSources(ctx context.Context) ([]SourceRow, error) {
	rows, err := q.db.Query(ctx, listSourcesSQL)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceRow
	for rows.Next() {
		var r SourceRow
		if err := rows.Scan(&r.Source, &r.ChunkCount); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}

// DeleteChunksBySource removes every row for a source.
func (q *Queries) DeleteChunksBySource(ctx context.Context, source string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM chunks WHERE source = $1`, source)
	if err != nil {
		return 0, fmt.Errorf("delete chunks by source: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAllChunks truncates the table.
func (q *Queries) DeleteAllChunks(ctx context.Context) error {
	if _, err := q.db.Exec(ctx, `TRUNCATE chunks`); err != nil {
		return fmt.Errorf("delete all chunks: %w", err)
	}
	return nil
}
