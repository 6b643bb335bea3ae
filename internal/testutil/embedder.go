package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// FakeEmbedder is a deterministic ai.Embedder for tests. The same text
// always maps to the same unit vector, so similarity comparisons are
// reproducible without a network call.
type FakeEmbedder struct {
	Dimension int
}

// NewFakeEmbedder creates a FakeEmbedder producing vectors of the given
// dimension.
func NewFakeEmbedder(dimension int) *FakeEmbedder {
	return &FakeEmbedder{Dimension: dimension}
}

// Name implements ai.Embedder.
func (f *FakeEmbedder) Name() string { return "fake-embedder" }

// Register implements ai.Embedder.
func (f *FakeEmbedder) Register(_ api.Registry) {}

// Embed derives one vector per input document from a hash of its text.
func (f *FakeEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		var text string
		if len(doc.Content) > 0 {
			text = doc.Content[0].Text
		}
		embeddings[i] = &ai.Embedding{Embedding: f.vector(text)}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

// vector expands the text's hash into a normalized vector.
func (f *FakeEmbedder) vector(text string) []float32 {
	seed := sha256.Sum256([]byte(text))

	vec := make([]float32, f.Dimension)
	var norm float64
	for i := range vec {
		block := sha256.Sum256(append(seed[:], byte(i), byte(i>>8)))
		bits := binary.BigEndian.Uint32(block[:4])
		v := float64(bits)/float64(math.MaxUint32)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
