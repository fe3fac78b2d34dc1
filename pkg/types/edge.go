package types

import (
	"time"

	"github.com/graphrecall/recall/pkg/utils"
)

// EntityEdge represents a relationship between two entity nodes. It carries a
// textual fact and the fact's embedding, which back the BM25 and cosine
// retrieval strategies respectively.
type EntityEdge struct {
	Uuid         string    `json:"uuid" mapstructure:"uuid"`
	Name         string    `json:"name" mapstructure:"name"`
	GroupID      string    `json:"group_id" mapstructure:"group_id"`
	SourceNodeID string    `json:"source_node_uuid" mapstructure:"source_node_uuid"`
	TargetNodeID string    `json:"target_node_uuid" mapstructure:"target_node_uuid"`
	CreatedAt    time.Time `json:"created_at" mapstructure:"created_at"`

	// Fact is the natural-language statement this edge asserts.
	Fact          string    `json:"fact" mapstructure:"fact"`
	FactEmbedding []float32 `json:"fact_embedding,omitempty" mapstructure:"fact_embedding"`

	// Episodes lists the episodic node uuids this fact was derived from.
	Episodes []string `json:"episodes,omitempty" mapstructure:"episodes"`

	// Temporal validity of the fact.
	ValidAt   *time.Time `json:"valid_at,omitempty" mapstructure:"valid_at"`
	InvalidAt *time.Time `json:"invalid_at,omitempty" mapstructure:"invalid_at"`
	ExpiredAt *time.Time `json:"expired_at,omitempty" mapstructure:"expired_at"`

	Metadata map[string]interface{} `json:"metadata,omitempty" mapstructure:"metadata"`
}

// NewEntityEdge creates an edge asserting fact between two entity nodes. An
// empty id gets a generated uuid.
func NewEntityEdge(id, sourceID, targetID, groupID, name, fact string) *EntityEdge {
	if id == "" {
		id = utils.GenerateUUID()
	}
	return &EntityEdge{
		Uuid:         id,
		Name:         name,
		GroupID:      groupID,
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		CreatedAt:    time.Now(),
		Fact:         fact,
	}
}

// Edge is an alias kept for callers that predate the EntityEdge rename.
type Edge = EntityEdge

// Validate checks if the edge has all required fields set.
func (e *EntityEdge) Validate() error {
	if e.Uuid == "" {
		return ErrEmptyUUID
	}
	if e.GroupID == "" {
		return ErrEmptyGroupID
	}
	return nil
}
