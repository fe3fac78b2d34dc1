package types

import (
	"errors"
	"time"

	"github.com/graphrecall/recall/pkg/utils"
)

// Validation errors
var (
	ErrEmptyUUID    = errors.New("uuid cannot be empty")
	ErrEmptyGroupID = errors.New("group_id cannot be empty")
	ErrEmptyContent = errors.New("content cannot be empty")
)

// NodeType represents the type of a node.
type NodeType string

const (
	// EntityNodeType represents entities extracted from content.
	EntityNodeType NodeType = "entity"
	// EpisodicNodeType represents episodic memories or events.
	EpisodicNodeType NodeType = "episodic"
)

// EpisodeType represents the kind of raw record an episodic node was built from.
type EpisodeType string

const (
	// ConversationEpisodeType for conversational data.
	ConversationEpisodeType EpisodeType = "conversation"
	// DocumentEpisodeType for document content.
	DocumentEpisodeType EpisodeType = "document"
	// EventEpisodeType for events or actions.
	EventEpisodeType EpisodeType = "event"
)

// Node represents a node in the knowledge graph. Both entity nodes and
// episodic nodes share this shape; the Type field distinguishes them.
type Node struct {
	Uuid      string    `json:"uuid" mapstructure:"uuid"`
	Name      string    `json:"name" mapstructure:"name"`
	Type      NodeType  `json:"type" mapstructure:"type"`
	GroupID   string    `json:"group_id" mapstructure:"group_id"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`

	// Entity-specific fields
	EntityType string `json:"entity_type,omitempty" mapstructure:"entity_type"`
	Summary    string `json:"summary,omitempty" mapstructure:"summary"`

	// Episode-specific fields
	EpisodeType EpisodeType `json:"episode_type,omitempty" mapstructure:"episode_type"`
	Content     string      `json:"content,omitempty" mapstructure:"content"`
	ValidAt     time.Time   `json:"valid_at,omitempty" mapstructure:"valid_at"`
	EntityEdges []string    `json:"entity_edges,omitempty" mapstructure:"entity_edges"`

	// Common fields
	NameEmbedding []float32              `json:"name_embedding,omitempty" mapstructure:"name_embedding"`
	Metadata      map[string]interface{} `json:"metadata,omitempty" mapstructure:"metadata"`
}

// NewEntityNode creates an entity node. An empty id gets a generated uuid.
func NewEntityNode(id, name, groupID string) *Node {
	if id == "" {
		id = utils.GenerateUUID()
	}
	return &Node{
		Uuid:      id,
		Name:      name,
		Type:      EntityNodeType,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
}

// NewEpisodicNode creates an episodic node valid at the given time. An empty
// id gets a generated uuid.
func NewEpisodicNode(id, name, groupID string, episodeType EpisodeType, content string, validAt time.Time) *Node {
	if id == "" {
		id = utils.GenerateUUID()
	}
	return &Node{
		Uuid:        id,
		Name:        name,
		Type:        EpisodicNodeType,
		GroupID:     groupID,
		CreatedAt:   time.Now(),
		EpisodeType: episodeType,
		Content:     content,
		ValidAt:     validAt,
	}
}

// Validate checks if the Node has all required fields set.
func (n *Node) Validate() error {
	if n.Uuid == "" {
		return ErrEmptyUUID
	}
	if n.GroupID == "" {
		return ErrEmptyGroupID
	}
	return nil
}

// SearchResults holds the result bundle of a hybrid search call.
//
// Episodes and Nodes keep their collaborator's native order (recency for
// episodes); only Edges are reranked.
type SearchResults struct {
	// Episodes retrieved from the recency window.
	Episodes []*Node `json:"episodes"`
	// Nodes mentioned by the retrieved episodes.
	Nodes []*Node `json:"nodes"`
	// Edges ranked by the configured strategies, fused when more than one ran.
	Edges []*EntityEdge `json:"edges"`
}

// ReverseNodes reverses a slice of nodes in place.
func ReverseNodes(nodes []*Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
