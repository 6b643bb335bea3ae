package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/assistant"
)

// renderAnswer formats an answer for the terminal. Markdown rendering
// degrades to plain text if the renderer cannot be created or --plain
// is set.
func renderAnswer(answer *assistant.Answer) string {
	text := answer.Text

	if !plainOutput {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, rerr := r.Render(text); rerr == nil {
				text = rendered
			}
		}
	}

	out := text
	if answer.Section != "" {
		out = fmt.Sprintf("[%s]\n%s", answer.Section, out)
	}
	if len(answer.Sources) > 0 {
		out += "\nSources:\n"
		for i, src := range answer.Sources {
			out += fmt.Sprintf("  %d. %s\n", i+1, src)
		}
	}
	return out
}
