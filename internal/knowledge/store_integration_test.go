package knowledge_test

import (
	"context"
	"testing"

	"go.uber.org/goleak"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/log"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/testutil"
)

const testDimension = 64

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*http2clientConnReadLoop).run"),
	)
}

func setupStore(t *testing.T) *knowledge.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	// The migration creates vector(768); integration tests use a narrower
	// column for speed.
	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, "ALTER TABLE chunks ALTER COLUMN embedding TYPE vector(64)"); err != nil {
		t.Fatalf("narrowing embedding column: %v", err)
	}

	return knowledge.New(
		knowledge.NewQueries(db.Pool),
		testutil.NewFakeEmbedder(testDimension),
		testDimension,
		log.NewNop(),
	)
}

func TestStoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	chunks := []knowledge.Chunk{
		{ID: "doc_a:0000", DocumentID: "doc_a", Source: "guide.pdf", Section: "PHYSICS", Position: 0,
			Content: "Colliders define the physical shape of an object.",
			Metadata: map[string]string{"run_id": "r1"}},
		{ID: "doc_a:0001", DocumentID: "doc_a", Source: "guide.pdf", Section: "PHYSICS", Position: 1,
			Content: "Triggers fire events without a physical response."},
		{ID: "doc_b:0000", DocumentID: "doc_b", Source: "audio.md", Section: "AUDIO", Position: 0,
			Content: "Mixers route signals between groups."},
	}
	if err := store.AddBatch(ctx, chunks); err != nil {
		t.Fatalf("AddBatch() = %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	// The fake embedder is deterministic, so the exact stored text is its
	// own best match.
	results, err := store.Search(ctx, "Colliders define the physical shape of an object.",
		knowledge.WithTopK(3))
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Chunk.ID != "doc_a:0000" {
		t.Errorf("best match = %q, want doc_a:0000", results[0].Chunk.ID)
	}
	if results[0].Similarity < 0.99 {
		t.Errorf("self-similarity = %f, want ~1", results[0].Similarity)
	}
	if results[0].Chunk.Metadata["run_id"] != "r1" {
		t.Errorf("metadata lost: %v", results[0].Chunk.Metadata)
	}

	sections, err := store.ListSections(ctx)
	if err != nil {
		t.Fatalf("ListSections() = %v", err)
	}
	if len(sections) != 2 || sections[0] != "PHYSICS" || sections[1] != "AUDIO" {
		t.Errorf("ListSections() = %v", sections)
	}
}

func TestStoreSectionFilter(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.AddBatch(ctx, []knowledge.Chunk{
		{ID: "c1", DocumentID: "d", Source: "s", Section: "PHYSICS", Content: "rigidbodies"},
		{ID: "c2", DocumentID: "d", Source: "s", Section: "AUDIO", Content: "mixers"},
	})
	if err != nil {
		t.Fatalf("AddBatch() = %v", err)
	}

	results, err := store.Search(ctx, "anything", knowledge.WithSection("AUDIO"), knowledge.WithTopK(10))
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "c2" {
		t.Errorf("section filter failed: %+v", results)
	}
}

func TestStoreUpsertReplaces(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	orig := knowledge.Chunk{ID: "c1", DocumentID: "d", Source: "s", Content: "old text"}
	if err := store.Add(ctx, orig); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	updated := orig
	updated.Content = "new text"
	if err := store.Add(ctx, updated); err != nil {
		t.Fatalf("Add() update = %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 after upsert", count)
	}

	results, err := store.Search(ctx, "new text", knowledge.WithTopK(1))
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Content != "new text" {
		t.Errorf("upsert did not replace content: %+v", results)
	}
}

func TestStoreDeleteBySource(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.AddBatch(ctx, []knowledge.Chunk{
		{ID: "c1", DocumentID: "d1", Source: "a.pdf", Content: "one"},
		{ID: "c2", DocumentID: "d1", Source: "a.pdf", Content: "two"},
		{ID: "c3", DocumentID: "d2", Source: "b.pdf", Content: "three"},
	})
	if err != nil {
		t.Fatalf("AddBatch() = %v", err)
	}

	deleted, err := store.DeleteBySource(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("DeleteBySource() = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteBySource() = %d, want 2", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() = %v", err)
	}
	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0 after DeleteAll", count)
	}
}
