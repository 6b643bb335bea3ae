package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/app"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/config"
)

// setupApp loads configuration and assembles the application. On a
// missing API key it prints actionable guidance before failing.
func setupApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Please run:")
			fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		}
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	return a, nil
}
