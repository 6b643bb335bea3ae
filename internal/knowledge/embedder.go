package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"golang.org/x/time/rate"
)

// RetryConfig configures the retry behavior for embedding calls.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	RequestsPerMin  int
}

// DefaultRetryConfig returns sensible defaults for the Gemini embedding
// API.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      5,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		RequestsPerMin:  60,
	}
}

// retryablePatterns groups error substrings by category. Matched
// case-insensitively against err.Error().
//
// String matching is used because Genkit and the provider SDKs do not
// expose typed errors for transient failures.
var retryablePatterns = [][]string{
	{"rate limit", "quota exceeded", "resource_exhausted", "429"},
	{"500", "502", "503", "504", "unavailable"},
	{"connection reset", "timeout", "temporary"},
}

func retryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, group := range retryablePatterns {
		for _, sub := range group {
			if strings.Contains(errStr, sub) {
				return true
			}
		}
	}
	return false
}

// RetryEmbedder wraps an ai.Embedder with request throttling and
// exponential backoff on transient provider errors. It satisfies
// ai.Embedder itself, so callers cannot tell it apart from the raw one.
type RetryEmbedder struct {
	inner   ai.Embedder
	limiter *rate.Limiter
	cfg     RetryConfig
	logger  *slog.Logger
}

// NewRetryEmbedder wraps inner. A zero or negative RequestsPerMin
// disables throttling.
func NewRetryEmbedder(inner ai.Embedder, cfg RetryConfig, logger *slog.Logger) *RetryEmbedder {
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), 1)
	}

	return &RetryEmbedder{
		inner:   inner,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Name reports the wrapped embedder's name.
func (e *RetryEmbedder) Name() string { return e.inner.Name() }

// Register delegates to the wrapped embedder.
func (e *RetryEmbedder) Register(r api.Registry) { e.inner.Register(r) }

// Embed calls the wrapped embedder, rate limiting each attempt and
// retrying transient failures with exponential backoff. Non-retryable
// errors fail immediately.
func (e *RetryEmbedder) Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	var lastErr error
	delay := e.cfg.InitialInterval
	start := time.Now()

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := e.inner.Embed(ctx, req)
		if err == nil {
			if attempt > 0 {
				e.logger.Debug("embedding succeeded after retry",
					"attempts", attempt+1,
					"elapsed", time.Since(start),
				)
			}
			return resp, nil
		}

		lastErr = err

		if !retryableError(err) {
			return nil, fmt.Errorf("embed: %w", err)
		}
		if attempt == e.cfg.MaxRetries {
			break
		}

		e.logger.Debug("retrying embedding after error",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled during retry: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, e.cfg.MaxInterval)
		}
	}

	return nil, fmt.Errorf("embed after %d retries (elapsed: %v): %w",
		e.cfg.MaxRetries, time.Since(start), lastErr)
}
