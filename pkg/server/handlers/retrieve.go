package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/graphrecall/recall"
	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/server/dto"
	"github.com/graphrecall/recall/pkg/types"
)

// RetrieveHandler handles data retrieval requests.
type RetrieveHandler struct {
	service recall.Service
	// defaults applied when a request carries no overrides
	defaults *search.Config
}

// NewRetrieveHandler creates a new retrieve handler.
func NewRetrieveHandler(service recall.Service, defaults *search.Config) *RetrieveHandler {
	if defaults == nil {
		defaults = search.DefaultConfig()
	}
	return &RetrieveHandler{service: service, defaults: defaults}
}

// Search handles POST /search.
func (h *RetrieveHandler) Search(c *gin.Context) {
	req, cfg, referenceTime, ok := h.bindSearch(c)
	if !ok {
		return
	}

	results, err := h.service.Search(c.Request.Context(), req.Query, referenceTime, cfg)
	if err != nil {
		writeSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSearchResults(results))
}

// Memory handles POST /memory: a search whose result bundle is rendered as a
// single LLM context string.
func (h *RetrieveHandler) Memory(c *gin.Context) {
	req, cfg, referenceTime, ok := h.bindSearch(c)
	if !ok {
		return
	}

	results, err := h.service.Search(c.Request.Context(), req.Query, referenceTime, cfg)
	if err != nil {
		writeSearchError(c, err)
		return
	}

	contextString, err := search.ResultsToContextString(results)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "render_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.MemoryResponse{Context: contextString})
}

// GetEpisodes handles GET /episodes?limit=n.
func (h *RetrieveHandler) GetEpisodes(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	episodes, err := h.service.RetrieveEpisodes(c.Request.Context(), time.Now(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "retrieval_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toEpisodeResults(episodes))
}

// bindSearch decodes and validates the shared search request shape. On
// failure it writes the error response and returns ok=false.
func (h *RetrieveHandler) bindSearch(c *gin.Context) (*dto.SearchQuery, *search.Config, time.Time, bool) {
	var req dto.SearchQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
		return nil, nil, time.Time{}, false
	}

	cfg := *h.defaults
	if req.MaxFacts > 0 {
		cfg.Limit = req.MaxFacts
	}
	if req.EpisodeWindow != nil {
		cfg.EpisodeWindow = *req.EpisodeWindow
	}

	if req.SimilarityStrategy != "" {
		strategy, err := search.ParseSimilarityStrategy(req.SimilarityStrategy)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
			return nil, nil, time.Time{}, false
		}
		cfg.Similarity = strategy
	}
	if req.TextStrategy != "" {
		strategy, err := search.ParseTextStrategy(req.TextStrategy)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
			return nil, nil, time.Time{}, false
		}
		cfg.Text = strategy
	}
	if req.RerankerStrategy != "" {
		strategy, err := search.ParseRerankerStrategy(req.RerankerStrategy)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_request", Message: err.Error()})
			return nil, nil, time.Time{}, false
		}
		cfg.Reranker = strategy
	}

	referenceTime := time.Now()
	if req.ReferenceTime != nil {
		referenceTime = *req.ReferenceTime
	}

	return &req, &cfg, referenceTime, true
}

func writeSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, search.ErrRerankerRequired),
		errors.Is(err, search.ErrInvalidLimit),
		errors.Is(err, search.ErrNegativeWindow):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_configuration", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "search_failed", Message: err.Error()})
	}
}

func toSearchResults(results *types.SearchResults) dto.SearchResults {
	facts := make([]dto.FactResult, 0, len(results.Edges))
	for _, edge := range results.Edges {
		facts = append(facts, dto.FactResult{
			UUID:       edge.Uuid,
			Fact:       edge.Fact,
			SourceUUID: edge.SourceNodeID,
			TargetUUID: edge.TargetNodeID,
			CreatedAt:  edge.CreatedAt,
			ValidAt:    edge.ValidAt,
			InvalidAt:  edge.InvalidAt,
		})
	}

	entities := make([]dto.EntityResult, 0, len(results.Nodes))
	for _, node := range results.Nodes {
		entities = append(entities, dto.EntityResult{
			UUID:    node.Uuid,
			Name:    node.Name,
			Summary: node.Summary,
		})
	}

	return dto.SearchResults{
		Facts:    facts,
		Entities: entities,
		Episodes: toEpisodeResults(results.Episodes),
		Total:    len(facts) + len(entities) + len(results.Episodes),
	}
}

func toEpisodeResults(episodes []*types.Node) []dto.EpisodeResult {
	out := make([]dto.EpisodeResult, 0, len(episodes))
	for _, episode := range episodes {
		out = append(out, dto.EpisodeResult{
			UUID:    episode.Uuid,
			Name:    episode.Name,
			Content: episode.Content,
			ValidAt: episode.ValidAt,
		})
	}
	return out
}
