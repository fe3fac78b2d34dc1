package types

import (
	"testing"
	"time"
)

func TestNewEntityNode(t *testing.T) {
	node := NewEntityNode("", "Alice", "group1")

	if node.Uuid == "" {
		t.Error("expected generated uuid")
	}
	if node.Type != EntityNodeType {
		t.Errorf("expected entity node type, got %s", node.Type)
	}
	if err := node.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	node = NewEntityNode("fixed-id", "Alice", "group1")
	if node.Uuid != "fixed-id" {
		t.Errorf("expected supplied id kept, got %s", node.Uuid)
	}
}

func TestNewEpisodicNode(t *testing.T) {
	validAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	node := NewEpisodicNode("", "conversation-1", "group1", ConversationEpisodeType, "hello", validAt)

	if node.Type != EpisodicNodeType {
		t.Errorf("expected episodic node type, got %s", node.Type)
	}
	if node.EpisodeType != ConversationEpisodeType {
		t.Errorf("expected conversation episode type, got %s", node.EpisodeType)
	}
	if !node.ValidAt.Equal(validAt) {
		t.Errorf("expected valid_at %v, got %v", validAt, node.ValidAt)
	}
	if node.Content != "hello" {
		t.Errorf("expected content kept, got %q", node.Content)
	}
}

func TestNodeValidate(t *testing.T) {
	node := &Node{Uuid: "u1", GroupID: "g1"}
	if err := node.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	node = &Node{GroupID: "g1"}
	if err := node.Validate(); err != ErrEmptyUUID {
		t.Errorf("expected ErrEmptyUUID, got %v", err)
	}

	node = &Node{Uuid: "u1"}
	if err := node.Validate(); err != ErrEmptyGroupID {
		t.Errorf("expected ErrEmptyGroupID, got %v", err)
	}
}

func TestReverseNodes(t *testing.T) {
	nodes := []*Node{{Uuid: "a"}, {Uuid: "b"}, {Uuid: "c"}}
	ReverseNodes(nodes)

	if nodes[0].Uuid != "c" || nodes[1].Uuid != "b" || nodes[2].Uuid != "a" {
		t.Errorf("unexpected order: %s %s %s", nodes[0].Uuid, nodes[1].Uuid, nodes[2].Uuid)
	}

	var empty []*Node
	ReverseNodes(empty)

	single := []*Node{{Uuid: "x"}}
	ReverseNodes(single)
	if single[0].Uuid != "x" {
		t.Error("single-element reverse changed the slice")
	}
}
