package embedder

import "context"

// Client generates fixed-dimension embeddings for text.
type Client interface {
	// Embed generates embeddings for the given texts in one batch.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the expected embedding width. Vectors longer than
	// this are truncated by the caller; shorter ones are an error. Zero
	// means the backend's native width is trusted as-is.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedding client settings.
type Config struct {
	// Model is the provider-specific model identifier.
	Model string
	// APIKey authenticates against remote providers.
	APIKey string
	// BaseURL overrides the provider endpoint, for proxies and
	// OpenAI-compatible servers.
	BaseURL string
	// Dimensions is the expected embedding width.
	Dimensions int
	// BatchSize caps how many texts are sent per request.
	BatchSize int
}

// DefaultOpenAIConfig returns the settings used when no embedding config is
// supplied: text-embedding-3-small at its native width.
func DefaultOpenAIConfig(apiKey string) *Config {
	return &Config{
		Model:      "text-embedding-3-small",
		APIKey:     apiKey,
		Dimensions: 1536,
		BatchSize:  100,
	}
}
