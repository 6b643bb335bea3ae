// Package config provides application configuration with multi-source priority.
//
// Sources (highest to lowest priority):
//  1. Environment variables (GAMEDEV_* overrides, DATABASE_URL)
//  2. Config file (~/.gamedev-rag/config.yaml or ./config.yaml)
//  3. Default values
//
// Configuration is validated fail-fast at load time; bad chunking
// parameters, an impossible prompt budget, or a broken Postgres target
// never make it past Load.
//
// Sensitive values (the Postgres password) are masked in String() and
// MarshalJSON(). GEMINI_API_KEY is read directly by the Genkit plugin,
// never stored here; Load only verifies its presence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the generation model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model name is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidEmbedderDimension indicates the embedding dimension is out of range.
	ErrInvalidEmbedderDimension = errors.New("invalid embedder dimension")

	// ErrInvalidChunking indicates chunk size or overlap is out of range.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrInvalidEmbedThrottle indicates retry or rate-limit settings are out of range.
	ErrInvalidEmbedThrottle = errors.New("invalid embed throttle settings")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid top-k")

	// ErrInvalidScoreThreshold indicates the similarity threshold is out of [0,1].
	ErrInvalidScoreThreshold = errors.New("invalid score threshold")

	// ErrInvalidPromptBudget indicates the prompt character budget is too small.
	ErrInvalidPromptBudget = errors.New("invalid prompt budget")

	// ErrInvalidTemperature indicates the sampling temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is empty.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates an unknown sslmode value.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

const (
	// DefaultModelName is the default Gemini generation model.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 supports truncation to 768 dimensions via
	// Matryoshka Representation Learning; the chunks table schema is
	// vector(768) to match.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultEmbedderDimension matches the vector(768) column in the
	// chunks table. Changing it requires a schema migration and a full
	// reindex.
	DefaultEmbedderDimension = 768
)

// Config stores application configuration.
type Config struct {
	// Generation and embedding models
	ModelName         string  `mapstructure:"model_name" json:"model_name"`
	EmbedderModel     string  `mapstructure:"embedder_model" json:"embedder_model"`
	EmbedderDimension int     `mapstructure:"embedder_dimension" json:"embedder_dimension"`
	Temperature       float32 `mapstructure:"temperature" json:"temperature"`

	// Ingestion / chunking
	ChunkWords        int `mapstructure:"chunk_words" json:"chunk_words"`
	ChunkOverlapWords int `mapstructure:"chunk_overlap_words" json:"chunk_overlap_words"`
	SectionTokenLimit int `mapstructure:"section_token_limit" json:"section_token_limit"`
	SkipPages         int `mapstructure:"skip_pages" json:"skip_pages"`

	// Retrieval
	TopK           int     `mapstructure:"top_k" json:"top_k"`
	ScoreThreshold float32 `mapstructure:"score_threshold" json:"score_threshold"`

	// Prompt composition
	MaxPromptChars int `mapstructure:"max_prompt_chars" json:"max_prompt_chars"`

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`

	// Embedding client throttling
	EmbedMaxRetries   int `mapstructure:"embed_max_retries" json:"embed_max_retries"`
	EmbedRequestsPerMin int `mapstructure:"embed_requests_per_min" json:"embed_requests_per_min"`

	// Storage (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".gamedev-rag")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("embedder_dimension", DefaultEmbedderDimension)
	v.SetDefault("temperature", 0.0)

	// Chunking: ~220 words per chunk with a 40-word carry keeps chunks
	// well under the embedder's token limit while preserving context
	// across boundaries.
	v.SetDefault("chunk_words", 220)
	v.SetDefault("chunk_overlap_words", 40)
	v.SetDefault("section_token_limit", 512)
	v.SetDefault("skip_pages", 7)

	v.SetDefault("top_k", 8)
	v.SetDefault("score_threshold", 0.4)

	v.SetDefault("max_prompt_chars", 16000)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	v.SetDefault("embed_max_retries", 5)
	v.SetDefault("embed_requests_per_min", 60)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "gamedev")
	v.SetDefault("postgres_password", "gamedev_dev_password")
	v.SetDefault("postgres_db_name", "gamedev_rag")
	v.SetDefault("postgres_ssl_mode", "disable")
}

// bindEnvVariables binds environment overrides explicitly.
// GEMINI_API_KEY is intentionally absent: the Genkit googlegenai plugin
// reads it directly, Validate only checks that it is present.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a failure here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "GAMEDEV_MODEL_NAME")
	mustBind("embedder_model", "GAMEDEV_EMBEDDER_MODEL")
	mustBind("top_k", "GAMEDEV_TOP_K")
	mustBind("log_level", "GAMEDEV_LOG_LEVEL")
	mustBind("log_json", "GAMEDEV_LOG_JSON")
	mustBind("score_threshold", "GAMEDEV_SCORE_THRESHOLD")
	mustBind("postgres_host", "GAMEDEV_POSTGRES_HOST")
	mustBind("postgres_port", "GAMEDEV_POSTGRES_PORT")
	mustBind("postgres_user", "GAMEDEV_POSTGRES_USER")
	mustBind("postgres_password", "GAMEDEV_POSTGRES_PASSWORD")
	mustBind("postgres_db_name", "GAMEDEV_POSTGRES_DB_NAME")
	mustBind("postgres_ssl_mode", "GAMEDEV_POSTGRES_SSL_MODE")
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked; longer ones keep the first and last two characters for debug
// utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// FullModelName returns the provider-qualified model name for Genkit,
// e.g. "googleai/gemini-2.5-flash".
func (c *Config) FullModelName() string {
	return "googleai/" + c.ModelName
}

// SlogLevel maps the configured log level to slog. Unknown values fall
// back to info rather than failing startup.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
