package search

import (
	"errors"
	"fmt"
)

// Constants for search operations.
const (
	// DefaultRankConstant is the RRF smoothing constant k. It is the
	// fusion algorithm's single tunable parameter.
	DefaultRankConstant = 60
	// DefaultLimit is the number of results requested from each backend.
	DefaultLimit = 10
	// DefaultEpisodeWindow is the number of most recent episodes retrieved
	// when episodic context is enabled.
	DefaultEpisodeWindow = 3
)

// Configuration errors.
var (
	ErrRerankerRequired = errors.New("multiple search strategies require a reranker")
	ErrInvalidLimit     = errors.New("limit must be positive")
	ErrNegativeWindow   = errors.New("episode window cannot be negative")
)

// SimilarityStrategy selects the vector retrieval strategy.
type SimilarityStrategy string

const (
	SimilarityNone   SimilarityStrategy = "none"
	SimilarityCosine SimilarityStrategy = "cosine"
)

// TextStrategy selects the lexical retrieval strategy.
type TextStrategy string

const (
	TextNone TextStrategy = "none"
	TextBM25 TextStrategy = "bm25"
)

// RerankerStrategy selects how multiple ranked lists are reconciled.
type RerankerStrategy string

const (
	RerankNone RerankerStrategy = "none"
	RerankRRF  RerankerStrategy = "rrf"
)

// ParseSimilarityStrategy converts a configuration string into a
// SimilarityStrategy. Unknown names are an error rather than a silent
// fallback.
func ParseSimilarityStrategy(s string) (SimilarityStrategy, error) {
	switch SimilarityStrategy(s) {
	case SimilarityNone, SimilarityCosine:
		return SimilarityStrategy(s), nil
	}
	return "", fmt.Errorf("unknown similarity strategy %q", s)
}

// ParseTextStrategy converts a configuration string into a TextStrategy.
func ParseTextStrategy(s string) (TextStrategy, error) {
	switch TextStrategy(s) {
	case TextNone, TextBM25:
		return TextStrategy(s), nil
	}
	return "", fmt.Errorf("unknown text strategy %q", s)
}

// ParseRerankerStrategy converts a configuration string into a
// RerankerStrategy.
func ParseRerankerStrategy(s string) (RerankerStrategy, error) {
	switch RerankerStrategy(s) {
	case RerankNone, RerankRRF:
		return RerankerStrategy(s), nil
	}
	return "", fmt.Errorf("unknown reranker strategy %q", s)
}

// Config describes the desired behavior of one hybrid search call. It is a
// value type; the orchestrator never mutates it.
type Config struct {
	// Limit is passed to each retrieval backend as its result cap. It does
	// not truncate the fused list.
	Limit int `json:"limit" mapstructure:"limit"`
	// EpisodeWindow is the number of recent episodes to retrieve. Zero
	// disables episode and mention retrieval entirely.
	EpisodeWindow int `json:"episode_window" mapstructure:"episode_window"`

	Similarity SimilarityStrategy `json:"similarity_strategy" mapstructure:"similarity_strategy"`
	Text       TextStrategy       `json:"text_strategy" mapstructure:"text_strategy"`
	Reranker   RerankerStrategy   `json:"reranker_strategy" mapstructure:"reranker_strategy"`
}

// DefaultConfig returns the configuration used when the caller supplies none:
// both edge strategies active, RRF fusion, and a short episodic window.
func DefaultConfig() *Config {
	return &Config{
		Limit:         DefaultLimit,
		EpisodeWindow: DefaultEpisodeWindow,
		Similarity:    SimilarityCosine,
		Text:          TextBM25,
		Reranker:      RerankRRF,
	}
}

// ActiveStrategies reports how many edge search strategies the config enables.
func (c *Config) ActiveStrategies() int {
	n := 0
	if c.Text == TextBM25 {
		n++
	}
	if c.Similarity == SimilarityCosine {
		n++
	}
	return n
}

// Validate checks the config's internal consistency. It is synchronous and
// performs no I/O, so the orchestrator can fail fast before issuing any
// collaborator calls. A config enabling more than one edge strategy without
// the RRF reranker is reported as an error, never silently resolved.
func (c *Config) Validate() error {
	if c.Limit <= 0 {
		return ErrInvalidLimit
	}
	if c.EpisodeWindow < 0 {
		return ErrNegativeWindow
	}
	if c.ActiveStrategies() > 1 && c.Reranker != RerankRRF {
		return ErrRerankerRequired
	}
	return nil
}
