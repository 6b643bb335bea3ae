package config

import (
	"errors"
	"testing"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		ModelName:           DefaultModelName,
		EmbedderModel:       DefaultEmbedderModel,
		EmbedderDimension:   DefaultEmbedderDimension,
		Temperature:         0,
		ChunkWords:          220,
		ChunkOverlapWords:   40,
		SectionTokenLimit:   512,
		SkipPages:           7,
		TopK:                8,
		ScoreThreshold:      0.4,
		MaxPromptChars:      16000,
		EmbedMaxRetries:     5,
		EmbedRequestsPerMin: 60,
		PostgresHost:        "localhost",
		PostgresPort:        5432,
		PostgresUser:        "gamedev",
		PostgresPassword:    "secret",
		PostgresDBName:      "gamedev_rag",
		PostgresSSLMode:     "disable",
	}
}

func TestValidateOK(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() = %v, want ErrConfigNil", err)
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if err := validConfig().Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = " " },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty embedder model",
			mutate:  func(c *Config) { c.EmbedderModel = "" },
			wantErr: ErrInvalidEmbedderModel,
		},
		{
			name:    "zero dimension",
			mutate:  func(c *Config) { c.EmbedderDimension = 0 },
			wantErr: ErrInvalidEmbedderDimension,
		},
		{
			name:    "dimension too large",
			mutate:  func(c *Config) { c.EmbedderDimension = 5000 },
			wantErr: ErrInvalidEmbedderDimension,
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Temperature = 2.5 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "zero chunk words",
			mutate:  func(c *Config) { c.ChunkWords = 0 },
			wantErr: ErrInvalidChunking,
		},
		{
			name:    "overlap equals chunk size",
			mutate:  func(c *Config) { c.ChunkOverlapWords = c.ChunkWords },
			wantErr: ErrInvalidChunking,
		},
		{
			name:    "overlap exceeds chunk size",
			mutate:  func(c *Config) { c.ChunkOverlapWords = c.ChunkWords + 10 },
			wantErr: ErrInvalidChunking,
		},
		{
			name:    "negative overlap",
			mutate:  func(c *Config) { c.ChunkOverlapWords = -1 },
			wantErr: ErrInvalidChunking,
		},
		{
			name:    "negative skip pages",
			mutate:  func(c *Config) { c.SkipPages = -1 },
			wantErr: ErrInvalidChunking,
		},
		{
			name:    "zero top-k",
			mutate:  func(c *Config) { c.TopK = 0 },
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "top-k too large",
			mutate:  func(c *Config) { c.TopK = 1000 },
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "negative score threshold",
			mutate:  func(c *Config) { c.ScoreThreshold = -0.1 },
			wantErr: ErrInvalidScoreThreshold,
		},
		{
			name:    "score threshold above one",
			mutate:  func(c *Config) { c.ScoreThreshold = 1.1 },
			wantErr: ErrInvalidScoreThreshold,
		},
		{
			name:    "prompt budget too small",
			mutate:  func(c *Config) { c.MaxPromptChars = 100 },
			wantErr: ErrInvalidPromptBudget,
		},
		{
			name:    "too many embed retries",
			mutate:  func(c *Config) { c.EmbedMaxRetries = 50 },
			wantErr: ErrInvalidEmbedThrottle,
		},
		{
			name:    "zero embed rate",
			mutate:  func(c *Config) { c.EmbedRequestsPerMin = 0 },
			wantErr: ErrInvalidEmbedThrottle,
		},
		{
			name:    "empty postgres host",
			mutate:  func(c *Config) { c.PostgresHost = "" },
			wantErr: ErrInvalidPostgresHost,
		},
		{
			name:    "postgres port out of range",
			mutate:  func(c *Config) { c.PostgresPort = 70000 },
			wantErr: ErrInvalidPostgresPort,
		},
		{
			name:    "empty postgres db name",
			mutate:  func(c *Config) { c.PostgresDBName = "" },
			wantErr: ErrInvalidPostgresDBName,
		},
		{
			name:    "unknown sslmode",
			mutate:  func(c *Config) { c.PostgresSSLMode = "maybe" },
			wantErr: ErrInvalidPostgresSSLMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "test-key")

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
