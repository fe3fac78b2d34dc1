package driver

import (
	"context"
	"time"

	"github.com/graphrecall/recall/pkg/types"
)

// This file defines focused interfaces so consumers can depend on the
// smallest contract that meets their needs. GraphDriver composes them.

// EpisodeRetriever provides recency-windowed episode lookup and mention
// expansion. Mention extraction depends on the episodes having been
// retrieved first; the interface encodes that by taking the episodes as
// input rather than re-querying.
type EpisodeRetriever interface {
	// RetrieveEpisodes returns up to limit episodic nodes valid at or
	// before referenceTime, in chronological order (oldest first).
	RetrieveEpisodes(ctx context.Context, referenceTime time.Time, groupIDs []string, limit int) ([]*types.Node, error)

	// GetMentionedNodes returns the entity nodes mentioned by the given
	// episodes, deduplicated, in the store's native order.
	GetMentionedNodes(ctx context.Context, episodes []*types.Node) ([]*types.Node, error)
}

// EdgeSearcher provides the two ranked edge retrieval strategies.
type EdgeSearcher interface {
	// SearchEdges performs BM25/full-text search over edge names and
	// facts. Results are ordered most relevant first and may be empty.
	SearchEdges(ctx context.Context, query, groupID string, options *SearchOptions) ([]*types.EntityEdge, error)

	// SearchEdgesByVector returns edges ordered by descending cosine
	// similarity between their fact embedding and the query vector.
	SearchEdgesByVector(ctx context.Context, vector []float32, groupID string, options *VectorSearchOptions) ([]*types.EntityEdge, error)
}

// GraphDriver is the full storage contract consumed by the retrieval engine.
type GraphDriver interface {
	EpisodeRetriever
	EdgeSearcher

	// CreateIndices creates the full-text and vector indices the search
	// strategies rely on. Safe to call repeatedly.
	CreateIndices(ctx context.Context) error

	// Close releases all resources held by the driver.
	Close(ctx context.Context) error
}

// SearchOptions holds options for full-text edge search.
type SearchOptions struct {
	// Limit caps the number of returned edges. Non-positive means the
	// driver default.
	Limit int
}

// VectorSearchOptions holds options for vector similarity edge search.
type VectorSearchOptions struct {
	// Limit caps the number of returned edges. Non-positive means the
	// driver default.
	Limit int
	// MinScore drops results below this cosine similarity.
	MinScore float64
}
