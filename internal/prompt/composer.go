// Package prompt assembles generation prompts from a question and
// retrieved context, keeping them inside a character budget.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
)

// ErrQuestionTooLarge indicates the question alone exceeds the prompt
// budget, so no amount of context trimming can help.
var ErrQuestionTooLarge = errors.New("question exceeds prompt budget")

const answerTemplate = `Answer the following question based on the provided context and provide steps in which the user can implement any solutions found.
If the answer is not in the context, say so.

Question:
%s

Context:
%s

Answer:`

const sectionTemplate = `You are assisting in a documentation question answering pipeline.
The documentation is split into sections with the following headings:

%s

Given the user question:
'%s'

Choose the single most relevant heading from the list above.
Respond with ONLY the heading text, nothing else.`

// Composer builds prompts bounded by a maximum character count.
type Composer struct {
	maxChars int
}

// NewComposer creates a Composer with the given budget.
func NewComposer(maxChars int) *Composer {
	return &Composer{maxChars: maxChars}
}

// Compose builds the answer prompt from the question and retrieved
// chunks, strongest first. When the full prompt exceeds the budget it
// drops the weakest chunks from the tail until it fits, returning the
// chunks that survived. An empty result set still yields a valid
// prompt.
func (c *Composer) Compose(question string, results []knowledge.Result) (string, []knowledge.Result, error) {
	// The question must fit even with no context at all.
	if len(c.render(question, nil)) > c.maxChars {
		return "", nil, fmt.Errorf("%w: %d chars over a %d char budget",
			ErrQuestionTooLarge, len(question), c.maxChars)
	}

	kept := results
	for len(kept) > 0 {
		p := c.render(question, kept)
		if len(p) <= c.maxChars {
			return p, kept, nil
		}
		kept = kept[:len(kept)-1]
	}

	return c.render(question, nil), nil, nil
}

// SectionPrompt builds the heading-selection prompt for a question.
func SectionPrompt(question string, headings []string) string {
	return fmt.Sprintf(sectionTemplate, strings.Join(headings, "\n"), question)
}

func (c *Composer) render(question string, results []knowledge.Result) string {
	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Chunk.Content
	}
	return fmt.Sprintf(answerTemplate, question, strings.Join(contents, "\n\n"))
}
