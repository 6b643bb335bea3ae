package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/log"
)

type mockSearcher struct {
	count      int
	countErr   error
	results    []knowledge.Result
	searchErr  error
	gotQuery   string
	gotOptions int
}

func (m *mockSearcher) Search(_ context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error) {
	m.gotQuery = query
	m.gotOptions = len(opts)
	return m.results, m.searchErr
}

func (m *mockSearcher) Count(_ context.Context) (int, error) {
	return m.count, m.countErr
}

func TestRetrieveEmptyIndex(t *testing.T) {
	r := New(&mockSearcher{count: 0}, 8, 0.4, log.NewNop())

	_, err := r.Retrieve(context.Background(), "what is a collider?", "")

	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Retrieve() = %v, want ErrEmptyIndex", err)
	}
}

func TestRetrieveReturnsResults(t *testing.T) {
	store := &mockSearcher{
		count: 100,
		results: []knowledge.Result{
			{Chunk: knowledge.Chunk{ID: "c1", Content: "colliders define shape"}, Similarity: 0.92},
			{Chunk: knowledge.Chunk{ID: "c2", Content: "triggers fire events"}, Similarity: 0.81},
		},
	}
	r := New(store, 8, 0.4, log.NewNop())

	results, err := r.Retrieve(context.Background(), "what is a collider?", "")
	if err != nil {
		t.Fatalf("Retrieve() = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if store.gotQuery != "what is a collider?" {
		t.Errorf("query = %q", store.gotQuery)
	}
	// Top-k and threshold, no section filter.
	if store.gotOptions != 2 {
		t.Errorf("got %d search options, want 2", store.gotOptions)
	}
}

func TestRetrieveWithSectionAddsFilter(t *testing.T) {
	store := &mockSearcher{count: 10}
	r := New(store, 8, 0.4, log.NewNop())

	if _, err := r.Retrieve(context.Background(), "q", "PHYSICS"); err != nil {
		t.Fatalf("Retrieve() = %v", err)
	}
	if store.gotOptions != 3 {
		t.Errorf("got %d search options, want 3", store.gotOptions)
	}
}

func TestRetrieveNoMatchesIsNotAnError(t *testing.T) {
	r := New(&mockSearcher{count: 10}, 8, 0.4, log.NewNop())

	results, err := r.Retrieve(context.Background(), "unrelated question", "")
	if err != nil {
		t.Fatalf("Retrieve() = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestRetrievePropagatesSearchError(t *testing.T) {
	searchErr := errors.New("connection refused")
	r := New(&mockSearcher{count: 10, searchErr: searchErr}, 8, 0.4, log.NewNop())

	if _, err := r.Retrieve(context.Background(), "q", ""); !errors.Is(err, searchErr) {
		t.Errorf("Retrieve() = %v, want wrapped search error", err)
	}
}
