// Package chunk splits cleaned document text into bounded, overlapping
// segments suitable for embedding.
//
// Tokenization policy: chunk boundaries are word-based (strings.Fields)
// and chunk text joins words with single spaces. Concatenating a
// splitter's output with the overlap removed therefore reproduces the
// whitespace-normalized input exactly.
package chunk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/document"
)

var (
	// ErrOverlapTooLarge indicates overlap >= max words, which would stall
	// the window.
	ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than chunk size")

	// ErrInvalidChunkSize indicates a non-positive maximum chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
)

// Chunk is one bounded segment of a document. Immutable once produced.
type Chunk struct {
	DocumentID string
	Source     string
	Section    string // heading of the enclosing section, "" if none
	Position   int    // order within the document
	Text       string
}

// Splitter windows text into chunks of at most MaxWords words where
// consecutive chunks share the trailing OverlapWords words.
type Splitter struct {
	maxWords     int
	overlapWords int
}

// NewSplitter validates the window parameters.
func NewSplitter(maxWords, overlapWords int) (*Splitter, error) {
	if maxWords < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, maxWords)
	}
	if overlapWords < 0 || overlapWords >= maxWords {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrOverlapTooLarge, overlapWords, maxWords)
	}
	return &Splitter{maxWords: maxWords, overlapWords: overlapWords}, nil
}

// Split windows text into overlapping word chunks in document order.
// The final chunk may be shorter than the maximum. Blank text yields nil.
func (s *Splitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= s.maxWords {
		return []string{strings.Join(words, " ")}
	}

	step := s.maxWords - s.overlapWords
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + s.maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// ChunkSections converts a document's sections into chunks. Sections
// within tokenLimit become a single chunk; larger ones are windowed.
// Positions run across the whole document so retrieval ties resolve in
// document order.
func (s *Splitter) ChunkSections(doc *document.Document, sections []document.Section, tokenLimit int) []Chunk {
	var chunks []Chunk
	position := 0

	add := func(section, text string) {
		chunks = append(chunks, Chunk{
			DocumentID: doc.ID,
			Source:     doc.Source,
			Section:    section,
			Position:   position,
			Text:       text,
		})
		position++
	}

	for _, sec := range sections {
		if EstimateTokens(sec.Body) <= tokenLimit {
			if text := strings.Join(strings.Fields(sec.Body), " "); text != "" {
				add(sec.Heading, text)
			}
			continue
		}
		for _, text := range s.Split(sec.Body) {
			add(sec.Heading, text)
		}
	}

	return chunks
}

// ID derives a stable chunk identifier from its document and position.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s:%04d", c.DocumentID, c.Position)
}
