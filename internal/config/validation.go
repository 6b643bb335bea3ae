package config

import (
	"fmt"
	"os"
	"strings"
)

// validSSLModes are the sslmode values libpq/pgx accept.
var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// Validate checks the configuration and fails fast with sentinel errors.
// Use errors.Is to test for specific failures.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY not set", ErrMissingAPIKey)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidEmbedderModel)
	}
	if c.EmbedderDimension < 1 || c.EmbedderDimension > 4096 {
		return fmt.Errorf("%w: dimension %d not in [1, 4096]", ErrInvalidEmbedderDimension, c.EmbedderDimension)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f not in [0, 2]", ErrInvalidTemperature, c.Temperature)
	}

	// Chunking: overlap must leave room for the window to advance.
	if c.ChunkWords < 1 {
		return fmt.Errorf("%w: chunk_words %d must be positive", ErrInvalidChunking, c.ChunkWords)
	}
	if c.ChunkOverlapWords < 0 || c.ChunkOverlapWords >= c.ChunkWords {
		return fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidChunking, c.ChunkOverlapWords, c.ChunkWords)
	}
	if c.SectionTokenLimit < 1 {
		return fmt.Errorf("%w: section_token_limit %d must be positive", ErrInvalidChunking, c.SectionTokenLimit)
	}
	if c.SkipPages < 0 {
		return fmt.Errorf("%w: skip_pages %d must not be negative", ErrInvalidChunking, c.SkipPages)
	}

	if c.TopK < 1 || c.TopK > 100 {
		return fmt.Errorf("%w: %d not in [1, 100]", ErrInvalidTopK, c.TopK)
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return fmt.Errorf("%w: %.2f not in [0, 1]", ErrInvalidScoreThreshold, c.ScoreThreshold)
	}

	// The budget must at least hold the prompt scaffolding plus a short
	// question; anything smaller can never compose a prompt.
	if c.MaxPromptChars < 512 {
		return fmt.Errorf("%w: %d below minimum 512", ErrInvalidPromptBudget, c.MaxPromptChars)
	}

	if c.EmbedMaxRetries < 0 || c.EmbedMaxRetries > 10 {
		return fmt.Errorf("%w: embed_max_retries %d not in [0, 10]", ErrInvalidEmbedThrottle, c.EmbedMaxRetries)
	}
	if c.EmbedRequestsPerMin < 1 {
		return fmt.Errorf("%w: embed_requests_per_min %d must be positive", ErrInvalidEmbedThrottle, c.EmbedRequestsPerMin)
	}

	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: port %d not in [1, 65535]", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidPostgresDBName)
	}
	if !validSSLModes[c.PostgresSSLMode] {
		return fmt.Errorf("%w: %q", ErrInvalidPostgresSSLMode, c.PostgresSSLMode)
	}

	return nil
}
