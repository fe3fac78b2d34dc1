package search

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, config.Limit)
	}
	if config.EpisodeWindow != DefaultEpisodeWindow {
		t.Errorf("expected episode window %d, got %d", DefaultEpisodeWindow, config.EpisodeWindow)
	}
	if config.Similarity != SimilarityCosine {
		t.Errorf("expected cosine similarity, got %s", config.Similarity)
	}
	if config.Text != TextBM25 {
		t.Errorf("expected bm25 text strategy, got %s", config.Text)
	}
	if config.Reranker != RerankRRF {
		t.Errorf("expected rrf reranker, got %s", config.Reranker)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "both strategies with rrf",
			config: Config{Limit: 10, Similarity: SimilarityCosine, Text: TextBM25, Reranker: RerankRRF},
		},
		{
			name:    "both strategies without reranker",
			config:  Config{Limit: 10, Similarity: SimilarityCosine, Text: TextBM25, Reranker: RerankNone},
			wantErr: ErrRerankerRequired,
		},
		{
			name:   "single strategy without reranker",
			config: Config{Limit: 10, Similarity: SimilarityNone, Text: TextBM25, Reranker: RerankNone},
		},
		{
			name:   "no strategies",
			config: Config{Limit: 10, Similarity: SimilarityNone, Text: TextNone, Reranker: RerankNone},
		},
		{
			name:    "zero limit",
			config:  Config{Limit: 0, Text: TextBM25, Reranker: RerankRRF},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "negative limit",
			config:  Config{Limit: -5, Text: TextBM25, Reranker: RerankRRF},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "negative episode window",
			config:  Config{Limit: 10, EpisodeWindow: -1, Text: TextBM25, Reranker: RerankRRF},
			wantErr: ErrNegativeWindow,
		},
		{
			name:   "zero episode window",
			config: Config{Limit: 10, EpisodeWindow: 0, Text: TextBM25, Reranker: RerankRRF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestActiveStrategies(t *testing.T) {
	config := &Config{Similarity: SimilarityCosine, Text: TextBM25}
	if n := config.ActiveStrategies(); n != 2 {
		t.Errorf("expected 2 active strategies, got %d", n)
	}

	config = &Config{Similarity: SimilarityNone, Text: TextBM25}
	if n := config.ActiveStrategies(); n != 1 {
		t.Errorf("expected 1 active strategy, got %d", n)
	}

	config = &Config{Similarity: SimilarityNone, Text: TextNone}
	if n := config.ActiveStrategies(); n != 0 {
		t.Errorf("expected 0 active strategies, got %d", n)
	}
}

func TestParseStrategies(t *testing.T) {
	if s, err := ParseSimilarityStrategy("cosine"); err != nil || s != SimilarityCosine {
		t.Errorf("parse cosine: got %q, %v", s, err)
	}
	if s, err := ParseSimilarityStrategy("none"); err != nil || s != SimilarityNone {
		t.Errorf("parse none: got %q, %v", s, err)
	}
	if _, err := ParseSimilarityStrategy("euclidean"); err == nil {
		t.Error("expected error for unknown similarity strategy")
	}

	if s, err := ParseTextStrategy("bm25"); err != nil || s != TextBM25 {
		t.Errorf("parse bm25: got %q, %v", s, err)
	}
	if _, err := ParseTextStrategy("tfidf"); err == nil {
		t.Error("expected error for unknown text strategy")
	}

	if s, err := ParseRerankerStrategy("rrf"); err != nil || s != RerankRRF {
		t.Errorf("parse rrf: got %q, %v", s, err)
	}
	if _, err := ParseRerankerStrategy("mmr"); err == nil {
		t.Error("expected error for unknown reranker strategy")
	}
	if _, err := ParseRerankerStrategy(""); err == nil {
		t.Error("expected error for empty reranker strategy")
	}
}
