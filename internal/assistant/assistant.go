// Package assistant answers game development questions over the
// ingested documentation. It picks the most relevant section, retrieves
// supporting chunks, and asks the model with them as context.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/prompt"
)

// ErrGenerate indicates the model call failed. Generation is not
// retried; the operator can simply ask again.
var ErrGenerate = errors.New("answer generation failed")

// NoContextAnswer is returned verbatim when nothing in the store clears
// the score threshold.
const NoContextAnswer = "No relevant context found above score threshold."

// sourcePreviewLen bounds the per-source preview in an Answer.
const sourcePreviewLen = 200

// Generator produces model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, promptText string) (string, error)
}

// Retriever finds chunks relevant to a question, optionally within one
// section.
type Retriever interface {
	Retrieve(ctx context.Context, question, section string) ([]knowledge.Result, error)
}

// SectionLister enumerates the section headings present in the store.
type SectionLister interface {
	ListSections(ctx context.Context) ([]string, error)
}

// Answer is the assistant's response to one question.
type Answer struct {
	Text    string
	Section string   // heading the answer was grounded in, "" if none
	Sources []string // previews of the context chunks used
}

// Assistant wires section selection, retrieval, prompt composition and
// generation into a single Ask operation. Safe for concurrent use.
type Assistant struct {
	generator Generator
	retriever Retriever
	sections  SectionLister
	composer  *prompt.Composer
	logger    *slog.Logger
}

// New creates an Assistant.
func New(generator Generator, retriever Retriever, sections SectionLister, composer *prompt.Composer, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		generator: generator,
		retriever: retriever,
		sections:  sections,
		composer:  composer,
		logger:    logger,
	}
}

// Ask answers a question from the ingested documentation.
//
// The model first picks the most relevant section heading. If the pick
// does not match a known heading the search falls back to the whole
// store rather than failing. When no chunk clears the score threshold
// the answer is NoContextAnswer with no sources.
func (a *Assistant) Ask(ctx context.Context, question string) (*Answer, error) {
	section, err := a.selectSection(ctx, question)
	if err != nil {
		return nil, err
	}

	results, err := a.retriever.Retrieve(ctx, question, section)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &Answer{Text: NoContextAnswer, Section: section}, nil
	}

	promptText, kept, err := a.composer.Compose(question, results)
	if err != nil {
		return nil, err
	}
	if len(kept) < len(results) {
		a.logger.Debug("dropped context to fit prompt budget",
			"retrieved", len(results),
			"kept", len(kept),
		)
	}

	text, err := a.generator.Generate(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	sources := make([]string, len(kept))
	for i, r := range kept {
		sources[i] = preview(r.Chunk.Content)
	}

	return &Answer{
		Text:    strings.TrimSpace(text),
		Section: section,
		Sources: sources,
	}, nil
}

// selectSection asks the model to pick a heading. Any failure or
// unrecognized pick degrades to an unscoped search.
func (a *Assistant) selectSection(ctx context.Context, question string) (string, error) {
	headings, err := a.sections.ListSections(ctx)
	if err != nil {
		return "", fmt.Errorf("listing sections: %w", err)
	}
	if len(headings) == 0 {
		return "", nil
	}

	pick, err := a.generator.Generate(ctx, prompt.SectionPrompt(question, headings))
	if err != nil {
		a.logger.Warn("section selection failed, searching all sections", "error", err)
		return "", nil
	}

	pick = strings.TrimSpace(pick)
	if !slices.Contains(headings, pick) {
		a.logger.Warn("model picked unknown section, searching all sections", "pick", pick)
		return "", nil
	}
	return pick, nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= sourcePreviewLen {
		return content
	}
	return string(runes[:sourcePreviewLen])
}
