package recall

import (
	"context"
	"time"

	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/types"
)

// Search performs hybrid search across the knowledge graph as of
// referenceTime. A nil config uses the client's default search configuration.
func (c *Client) Search(ctx context.Context, query string, referenceTime time.Time, config *search.Config) (*types.SearchResults, error) {
	if config == nil {
		config = c.config.SearchConfig
	}
	return c.searcher.Search(ctx, query, referenceTime.In(c.config.TimeZone), config, c.config.GroupID)
}

// SearchContext performs a hybrid search and renders the result bundle as a
// single context string suitable for prompting an LLM.
func (c *Client) SearchContext(ctx context.Context, query string, referenceTime time.Time, config *search.Config) (string, error) {
	results, err := c.Search(ctx, query, referenceTime, config)
	if err != nil {
		return "", err
	}
	return search.ResultsToContextString(results)
}

// RetrieveEpisodes retrieves up to limit episodes valid at or before
// referenceTime, in chronological order (oldest first).
func (c *Client) RetrieveEpisodes(ctx context.Context, referenceTime time.Time, limit int) ([]*types.Node, error) {
	return c.driver.RetrieveEpisodes(ctx, referenceTime.In(c.config.TimeZone), []string{c.config.GroupID}, limit)
}

// GetEpisodes retrieves the most recent episodes as of now.
func (c *Client) GetEpisodes(ctx context.Context, limit int) ([]*types.Node, error) {
	return c.RetrieveEpisodes(ctx, time.Now(), limit)
}
