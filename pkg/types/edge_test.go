package types

import (
	"testing"
)

func TestNewEntityEdge(t *testing.T) {
	edge := NewEntityEdge("", "src", "dst", "group1", "WORKS_AT", "Alice works at Acme")

	if edge.Uuid == "" {
		t.Error("expected generated uuid")
	}
	if edge.SourceNodeID != "src" || edge.TargetNodeID != "dst" {
		t.Errorf("endpoints not kept: %s -> %s", edge.SourceNodeID, edge.TargetNodeID)
	}
	if edge.Fact != "Alice works at Acme" {
		t.Errorf("expected fact kept, got %q", edge.Fact)
	}
	if err := edge.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestEntityEdgeValidate(t *testing.T) {
	edge := &EntityEdge{Uuid: "u1", GroupID: "g1"}
	if err := edge.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	edge = &EntityEdge{GroupID: "g1"}
	if err := edge.Validate(); err != ErrEmptyUUID {
		t.Errorf("expected ErrEmptyUUID, got %v", err)
	}

	edge = &EntityEdge{Uuid: "u1"}
	if err := edge.Validate(); err != ErrEmptyGroupID {
		t.Errorf("expected ErrEmptyGroupID, got %v", err)
	}
}
