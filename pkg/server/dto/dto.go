// Package dto defines the wire types of the HTTP API.
package dto

import "time"

// SearchQuery is the request body for POST /search and POST /memory.
type SearchQuery struct {
	Query string `json:"query" binding:"required"`
	// ReferenceTime defaults to now when omitted.
	ReferenceTime *time.Time `json:"reference_time,omitempty"`
	// MaxFacts caps results requested from each backend.
	MaxFacts int `json:"max_facts,omitempty"`
	// EpisodeWindow overrides the configured episode window; nil keeps the
	// server default, 0 disables episodic context.
	EpisodeWindow *int `json:"episode_window,omitempty"`

	// Strategy overrides, by name. Unknown names are a 400.
	SimilarityStrategy string `json:"similarity_strategy,omitempty"`
	TextStrategy       string `json:"text_strategy,omitempty"`
	RerankerStrategy   string `json:"reranker_strategy,omitempty"`
}

// FactResult is one relationship edge in a search response.
type FactResult struct {
	UUID       string     `json:"uuid"`
	Fact       string     `json:"fact"`
	SourceUUID string     `json:"source_node_uuid"`
	TargetUUID string     `json:"target_node_uuid"`
	CreatedAt  time.Time  `json:"created_at"`
	ValidAt    *time.Time `json:"valid_at,omitempty"`
	InvalidAt  *time.Time `json:"invalid_at,omitempty"`
}

// EntityResult is one mentioned entity node in a search response.
type EntityResult struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
}

// EpisodeResult is one episode in a search or episode-listing response.
type EpisodeResult struct {
	UUID    string    `json:"uuid"`
	Name    string    `json:"name"`
	Content string    `json:"content,omitempty"`
	ValidAt time.Time `json:"valid_at"`
}

// SearchResults is the response body for POST /search.
type SearchResults struct {
	Facts    []FactResult    `json:"facts"`
	Entities []EntityResult  `json:"entities"`
	Episodes []EpisodeResult `json:"episodes"`
	Total    int             `json:"total"`
}

// MemoryResponse is the response body for POST /memory.
type MemoryResponse struct {
	Context string `json:"context"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
