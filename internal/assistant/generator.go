package assistant

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// GenkitGenerator produces answers through a Genkit-registered model.
type GenkitGenerator struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
}

// NewGenkitGenerator creates a Generator for the named model, e.g.
// "googleai/gemini-2.5-flash".
func NewGenkitGenerator(g *genkit.Genkit, modelName string, temperature float32) *GenkitGenerator {
	return &GenkitGenerator{
		g:           g,
		modelName:   modelName,
		temperature: temperature,
	}
}

// Generate runs one model call and returns its text.
func (gg *GenkitGenerator) Generate(ctx context.Context, promptText string) (string, error) {
	resp, err := genkit.Generate(ctx, gg.g,
		ai.WithModelName(gg.modelName),
		ai.WithPrompt(promptText),
		ai.WithConfig(map[string]any{"temperature": gg.temperature}),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Text(), nil
}
