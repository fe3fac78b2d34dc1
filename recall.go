package recall

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/graphrecall/recall/pkg/driver"
	"github.com/graphrecall/recall/pkg/embedder"
	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/types"
)

// Construction errors.
var (
	ErrNilDriver   = errors.New("graph driver is required")
	ErrNilEmbedder = errors.New("embedder client is required")
)

// Service is the retrieval surface consumed by hosting layers such as the
// HTTP server. Depend on this interface rather than *Client.
type Service interface {
	// Search performs hybrid search across the knowledge graph as of the
	// reference time.
	Search(ctx context.Context, query string, referenceTime time.Time, config *search.Config) (*types.SearchResults, error)

	// RetrieveEpisodes retrieves recent episodes valid at or before the
	// reference time, in chronological order.
	RetrieveEpisodes(ctx context.Context, referenceTime time.Time, limit int) ([]*types.Node, error)
}

// Config holds configuration for the retrieval client.
type Config struct {
	// GroupID isolates data for multi-tenant scenarios.
	GroupID string
	// TimeZone for temporal operations.
	TimeZone *time.Location
	// SearchConfig is the default used when a call supplies none.
	SearchConfig *search.Config
}

// Client is the main implementation of the Service interface.
type Client struct {
	driver   driver.GraphDriver
	embedder embedder.Client
	searcher *search.Searcher
	config   *Config
	logger   *slog.Logger
}

var _ Service = (*Client)(nil)

// New creates a retrieval client over the given collaborators. A nil config
// or logger selects defaults.
func New(graphDriver driver.GraphDriver, embedderClient embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if graphDriver == nil {
		return nil, ErrNilDriver
	}
	if embedderClient == nil {
		return nil, ErrNilEmbedder
	}
	if config == nil {
		config = &Config{}
	}
	if config.GroupID == "" {
		config.GroupID = "default"
	}
	if config.TimeZone == nil {
		config.TimeZone = time.UTC
	}
	if config.SearchConfig == nil {
		config.SearchConfig = search.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		driver:   graphDriver,
		embedder: embedderClient,
		searcher: search.NewSearcher(graphDriver, embedderClient, logger),
		config:   config,
		logger:   logger,
	}, nil
}

// GetDriver returns the underlying graph driver.
func (c *Client) GetDriver() driver.GraphDriver {
	return c.driver
}

// GetEmbedder returns the embedder client.
func (c *Client) GetEmbedder() embedder.Client {
	return c.embedder
}

// CreateIndices creates the database indices the search strategies rely on.
func (c *Client) CreateIndices(ctx context.Context) error {
	return c.driver.CreateIndices(ctx)
}

// Close closes all connections and cleans up resources.
func (c *Client) Close(ctx context.Context) error {
	embErr := c.embedder.Close()
	if err := c.driver.Close(ctx); err != nil {
		return err
	}
	return embErr
}
