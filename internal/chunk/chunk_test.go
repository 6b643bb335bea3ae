package chunk

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/document"
)

func TestNewSplitterRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name     string
		maxWords int
		overlap  int
		wantErr  error
	}{
		{"overlap equals size", 5, 5, ErrOverlapTooLarge},
		{"overlap exceeds size", 5, 8, ErrOverlapTooLarge},
		{"negative overlap", 5, -1, ErrOverlapTooLarge},
		{"zero size", 0, 0, ErrInvalidChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSplitter(tt.maxWords, tt.overlap); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSplitter(%d, %d) = %v, want %v", tt.maxWords, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplitOverlapWindow(t *testing.T) {
	s, err := NewSplitter(5, 1)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Split("Unity colliders can be triggers or solid bodies.")

	want := []string{
		"Unity colliders can be triggers",
		"triggers or solid bodies.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %#v, want %#v", got, want)
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s, err := NewSplitter(100, 10)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Split("Rigidbodies give objects mass.")

	if len(got) != 1 || got[0] != "Rigidbodies give objects mass." {
		t.Errorf("Split() = %#v", got)
	}
}

func TestSplitBlankText(t *testing.T) {
	s, err := NewSplitter(10, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Split("   \n\t  "); got != nil {
		t.Errorf("Split(blank) = %#v, want nil", got)
	}
}

func TestSplitReconstruction(t *testing.T) {
	const maxWords, overlap = 7, 2
	s, err := NewSplitter(maxWords, overlap)
	if err != nil {
		t.Fatal(err)
	}

	input := "Physics in Unity is driven by rigidbodies and colliders which together define how objects move collide and respond to forces within a scene"
	chunks := s.Split(input)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	// Dropping the leading overlap from every chunk after the first must
	// reproduce the normalized input.
	var rebuilt []string
	for i, c := range chunks {
		words := strings.Fields(c)
		if i > 0 {
			words = words[overlap:]
		}
		rebuilt = append(rebuilt, words...)
	}
	if got := strings.Join(rebuilt, " "); got != input {
		t.Errorf("reconstruction mismatch:\n got  %q\n want %q", got, input)
	}

	for i, c := range chunks {
		if n := len(strings.Fields(c)); n > maxWords {
			t.Errorf("chunk %d has %d words, max %d", i, n, maxWords)
		}
	}
}

func TestChunkSections(t *testing.T) {
	s, err := NewSplitter(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	doc := &document.Document{ID: "doc_abc", Source: "/docs/guide.pdf"}
	long := strings.Repeat("colliders define physical shape ", 40)
	sections := []document.Section{
		{Heading: "PHYSICS", Body: "Rigidbodies have mass."},
		{Heading: "COLLISION", Body: long},
	}

	// Small token limit forces the long section through the window.
	chunks := s.ChunkSections(doc, sections, 10)

	if len(chunks) < 3 {
		t.Fatalf("expected windowed chunks, got %d", len(chunks))
	}
	if chunks[0].Section != "PHYSICS" || chunks[0].Text != "Rigidbodies have mass." {
		t.Errorf("first chunk = %+v", chunks[0])
	}
	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
		if c.DocumentID != "doc_abc" || c.Source != "/docs/guide.pdf" {
			t.Errorf("chunk %d lost document identity: %+v", i, c)
		}
	}
	for _, c := range chunks[1:] {
		if c.Section != "COLLISION" {
			t.Errorf("windowed chunk lost heading: %+v", c)
		}
	}
}

func TestChunkSectionsSmallSectionStaysWhole(t *testing.T) {
	s, err := NewSplitter(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	doc := &document.Document{ID: "doc_abc", Source: "notes.md"}
	sections := []document.Section{
		{Heading: "AUDIO", Body: "Mixers   route\nsignals."},
	}

	chunks := s.ChunkSections(doc, sections, 512)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "Mixers route signals." {
		t.Errorf("Text = %q, want normalized body", chunks[0].Text)
	}
}

func TestChunkID(t *testing.T) {
	c := Chunk{DocumentID: "doc_abc", Position: 7}
	if got := c.ID(); got != "doc_abc:0007" {
		t.Errorf("ID() = %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcdefgh"); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(\"\") = %d", got)
	}
}
