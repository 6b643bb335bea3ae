package knowledge

import "time"

// Chunk is a stored fragment of a source document together with its
// provenance. Metadata carries ingestion details such as the run ID.
type Chunk struct {
	ID         string
	DocumentID string
	Source     string
	Section    string
	Position   int
	Content    string
	Metadata   map[string]string
	CreatedAt  time.Time
}

// Result is a single search hit with its cosine similarity score.
type Result struct {
	Chunk      Chunk
	Similarity float32 // 1 is identical, 0 is orthogonal
}

// SearchOption configures search behavior using the functional options
// pattern.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK     int
	section  string
	minScore float32
	timeout  time.Duration
}

// WithTopK sets the maximum number of results to return. Default is 5.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		c.topK = k
	}
}

// WithSection restricts the search to chunks under the given heading.
func WithSection(heading string) SearchOption {
	return func(c *searchConfig) {
		c.section = heading
	}
}

// WithMinScore drops results whose similarity falls below the threshold.
func WithMinScore(score float32) SearchOption {
	return func(c *searchConfig) {
		c.minScore = score
	}
}

// WithTimeout overrides the default per-search timeout.
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    5,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
