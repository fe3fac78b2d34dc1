package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/graphrecall/recall/pkg/driver"
	"github.com/graphrecall/recall/pkg/embedder"
	"github.com/graphrecall/recall/pkg/types"
	"github.com/graphrecall/recall/pkg/utils"
)

// ErrEmbeddingTooShort is returned when the embedding backend produces a
// vector narrower than the expected dimension. Longer vectors are truncated,
// matching the fixed-width vector index.
var ErrEmbeddingTooShort = errors.New("embedding shorter than expected dimension")

// Searcher orchestrates one hybrid search call: it reads the config, fans out
// the active retrieval strategies concurrently, and folds their results into
// a single bundle, fusing multi-strategy edge rankings with RRF.
type Searcher struct {
	driver       driver.GraphDriver
	embedder     embedder.Client
	logger       *slog.Logger
	rankConstant int
}

// NewSearcher creates a Searcher over the given collaborators.
func NewSearcher(graphDriver driver.GraphDriver, embedderClient embedder.Client, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		driver:       graphDriver,
		embedder:     embedderClient,
		logger:       logger,
		rankConstant: DefaultRankConstant,
	}
}

// SetRankConstant overrides the RRF smoothing constant k.
func (s *Searcher) SetRankConstant(k int) {
	if k > 0 {
		s.rankConstant = k
	}
}

// Search runs hybrid retrieval for the query as of referenceTime.
//
// The config is validated before any collaborator call is issued. Active
// branches run concurrently; a branch failure is surfaced only after every
// issued call has settled, and no partial bundle is ever returned. Context
// cancellation propagates as context.Canceled through the collaborators.
func (s *Searcher) Search(ctx context.Context, query string, referenceTime time.Time, config *Config, groupID string) (*types.SearchResults, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		episodes    []*types.Node
		nodes       []*types.Node
		textEdges   []*types.EntityEdge
		vectorEdges []*types.EntityEdge
	)

	textActive := config.Text == TextBM25
	vectorActive := config.Similarity == SimilarityCosine

	var branches []func() error

	if config.EpisodeWindow > 0 {
		branches = append(branches, func() error {
			// Mention extraction depends on the episode lookup; the
			// two stay sequential inside this branch.
			result, err := s.driver.RetrieveEpisodes(ctx, referenceTime, s.groupIDs(groupID), config.EpisodeWindow)
			if err != nil {
				return fmt.Errorf("episode retrieval failed: %w", err)
			}
			mentioned, err := s.driver.GetMentionedNodes(ctx, result)
			if err != nil {
				return fmt.Errorf("mentioned node retrieval failed: %w", err)
			}
			episodes = result
			nodes = mentioned
			return nil
		})
	}

	if textActive {
		branches = append(branches, func() error {
			result, err := s.driver.SearchEdges(ctx, query, groupID, &driver.SearchOptions{Limit: config.Limit})
			if err != nil {
				return fmt.Errorf("fulltext edge search failed: %w", err)
			}
			textEdges = result
			return nil
		})
	}

	if vectorActive {
		branches = append(branches, func() error {
			// Embedding generation must complete before vector search.
			vector, err := s.queryVector(ctx, query)
			if err != nil {
				return err
			}
			result, err := s.driver.SearchEdgesByVector(ctx, vector, groupID, &driver.VectorSearchOptions{Limit: config.Limit})
			if err != nil {
				return fmt.Errorf("similarity edge search failed: %w", err)
			}
			vectorEdges = result
			return nil
		})
	}

	if err := utils.FirstError(utils.SemaphoreGather(ctx, len(branches), branches...)); err != nil {
		return nil, err
	}

	// Per-strategy lists in fixed order so fusion input is reproducible.
	searchResults := make([][]*types.EntityEdge, 0, 2)
	if textActive {
		searchResults = append(searchResults, textEdges)
	}
	if vectorActive {
		searchResults = append(searchResults, vectorEdges)
	}

	edges := s.combineEdges(searchResults)

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		for i, result := range searchResults {
			s.logger.Debug("search strategy results", "strategy", i, "facts", edgeFacts(result))
		}
	}
	s.logger.Info("hybrid search returned context",
		"query", query,
		"episodes", len(episodes),
		"nodes", len(nodes),
		"edges", len(edges),
		"duration_ms", time.Since(start).Milliseconds())

	return &types.SearchResults{
		Episodes: episodes,
		Nodes:    nodes,
		Edges:    edges,
	}, nil
}

// combineEdges folds per-strategy ranked edge lists into the final edge
// ordering. A single strategy's list passes through verbatim; multiple lists
// are fused with RRF over uuids and resolved back through a per-call map, so
// an edge found by both strategies appears once.
func (s *Searcher) combineEdges(searchResults [][]*types.EntityEdge) []*types.EntityEdge {
	switch len(searchResults) {
	case 0:
		return []*types.EntityEdge{}
	case 1:
		return searchResults[0]
	}

	edgeUUIDMap := make(map[string]*types.EntityEdge)
	resultUUIDs := make([][]string, 0, len(searchResults))
	for _, result := range searchResults {
		uuids := make([]string, 0, len(result))
		for _, edge := range result {
			uuids = append(uuids, edge.Uuid)
			edgeUUIDMap[edge.Uuid] = edge
		}
		resultUUIDs = append(resultUUIDs, uuids)
	}

	rankedUUIDs, _ := RRF(resultUUIDs, s.rankConstant)

	edges := make([]*types.EntityEdge, 0, len(rankedUUIDs))
	for _, uuid := range rankedUUIDs {
		edges = append(edges, edgeUUIDMap[uuid])
	}
	return edges
}

// queryVector embeds the query text, normalizing newlines first since
// embedding backends are line oriented, then validates the vector against the
// embedder's expected width.
func (s *Searcher) queryVector(ctx context.Context, query string) ([]float32, error) {
	text := strings.ReplaceAll(query, "\n", " ")

	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to create query embedding: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding backend returned no vector")
	}

	vector := vectors[0]
	if dim := s.embedder.Dimensions(); dim > 0 {
		if len(vector) < dim {
			return nil, fmt.Errorf("%w: got %d, expected %d", ErrEmbeddingTooShort, len(vector), dim)
		}
		vector = vector[:dim]
	}
	return vector, nil
}

func (s *Searcher) groupIDs(groupID string) []string {
	if groupID == "" {
		return nil
	}
	return []string{groupID}
}

func edgeFacts(edges []*types.EntityEdge) []string {
	facts := make([]string, len(edges))
	for i, edge := range edges {
		facts[i] = edge.Fact
	}
	return facts
}
