// Package retrieve selects the chunks most relevant to a question from
// the knowledge store.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
)

// ErrEmptyIndex indicates a query against a store with no chunks.
// Callers should prompt the operator to ingest documents first.
var ErrEmptyIndex = errors.New("knowledge store is empty")

// Searcher is the slice of the knowledge store the retriever depends on.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
	Count(ctx context.Context) (int, error)
}

// Retriever runs similarity search with a fixed top-k and score
// threshold.
type Retriever struct {
	store     Searcher
	topK      int
	threshold float32
	logger    *slog.Logger
}

// New creates a Retriever. topK bounds the number of results and
// threshold drops weak matches.
func New(store Searcher, topK int, threshold float32, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		store:     store,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

// Retrieve returns up to topK chunks similar to the question, strongest
// first. section narrows the search to one heading; pass "" for the
// whole store. An empty result slice means nothing cleared the
// threshold, which is not an error.
func (r *Retriever) Retrieve(ctx context.Context, question, section string) ([]knowledge.Result, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking index size: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyIndex
	}

	opts := []knowledge.SearchOption{
		knowledge.WithTopK(r.topK),
		knowledge.WithMinScore(r.threshold),
	}
	if section != "" {
		opts = append(opts, knowledge.WithSection(section))
	}

	results, err := r.store.Search(ctx, question, opts...)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	r.logger.Debug("retrieved chunks",
		"question_length", len(question),
		"section", section,
		"results", len(results),
	)
	return results, nil
}
