package recall

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/graphrecall/recall/pkg/driver"
	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/types"
)

type mockDriver struct {
	episodes    []*types.Node
	nodes       []*types.Node
	textEdges   []*types.EntityEdge
	vectorEdges []*types.EntityEdge

	lastGroupIDs []string
	closed       bool
	indices      bool
}

func (m *mockDriver) RetrieveEpisodes(ctx context.Context, referenceTime time.Time, groupIDs []string, limit int) ([]*types.Node, error) {
	m.lastGroupIDs = groupIDs
	return m.episodes, nil
}

func (m *mockDriver) GetMentionedNodes(ctx context.Context, episodes []*types.Node) ([]*types.Node, error) {
	return m.nodes, nil
}

func (m *mockDriver) SearchEdges(ctx context.Context, query, groupID string, options *driver.SearchOptions) ([]*types.EntityEdge, error) {
	return m.textEdges, nil
}

func (m *mockDriver) SearchEdgesByVector(ctx context.Context, vector []float32, groupID string, options *driver.VectorSearchOptions) ([]*types.EntityEdge, error) {
	return m.vectorEdges, nil
}

func (m *mockDriver) CreateIndices(ctx context.Context) error {
	m.indices = true
	return nil
}

func (m *mockDriver) Close(ctx context.Context) error {
	m.closed = true
	return nil
}

type mockEmbedder struct {
	closed bool
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{0.1, 0.2, 0.3}}, nil
}

func (m *mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) Close() error {
	m.closed = true
	return nil
}

func TestNew(t *testing.T) {
	client, err := New(&mockDriver{}, &mockEmbedder{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.config.GroupID != "default" {
		t.Errorf("expected default group id, got %q", client.config.GroupID)
	}
	if client.config.TimeZone != time.UTC {
		t.Errorf("expected UTC timezone, got %v", client.config.TimeZone)
	}
	if client.config.SearchConfig == nil {
		t.Error("expected default search config")
	}
}

func TestNewNilCollaborators(t *testing.T) {
	if _, err := New(nil, &mockEmbedder{}, nil, nil); err != ErrNilDriver {
		t.Errorf("expected ErrNilDriver, got %v", err)
	}
	if _, err := New(&mockDriver{}, nil, nil, nil); err != ErrNilEmbedder {
		t.Errorf("expected ErrNilEmbedder, got %v", err)
	}
}

func TestClientSearch(t *testing.T) {
	graphDriver := &mockDriver{
		textEdges:   []*types.EntityEdge{{Uuid: "e1", Fact: "fact one"}},
		vectorEdges: []*types.EntityEdge{{Uuid: "e1", Fact: "fact one"}},
		episodes:    []*types.Node{{Uuid: "ep1", Type: types.EpisodicNodeType}},
		nodes:       []*types.Node{{Uuid: "n1", Type: types.EntityNodeType}},
	}

	client, err := New(graphDriver, &mockEmbedder{}, &Config{GroupID: "tenant-a"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := client.Search(context.Background(), "query", time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results.Edges) != 1 || results.Edges[0].Uuid != "e1" {
		t.Errorf("unexpected edges: %+v", results.Edges)
	}
	if len(results.Episodes) != 1 || len(results.Nodes) != 1 {
		t.Errorf("expected episodic context, got %d episodes, %d nodes",
			len(results.Episodes), len(results.Nodes))
	}
	if len(graphDriver.lastGroupIDs) != 1 || graphDriver.lastGroupIDs[0] != "tenant-a" {
		t.Errorf("expected group scoping, got %v", graphDriver.lastGroupIDs)
	}
}

func TestClientSearchContext(t *testing.T) {
	graphDriver := &mockDriver{
		textEdges: []*types.EntityEdge{{Uuid: "e1", Fact: "Alice works at Acme"}},
	}
	client, err := New(graphDriver, &mockEmbedder{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config := &search.Config{Limit: 5, Text: search.TextBM25, Reranker: search.RerankNone}
	contextStr, err := client.SearchContext(context.Background(), "query", time.Now(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(contextStr, "Alice works at Acme") {
		t.Errorf("expected fact in context string, got %q", contextStr)
	}
}

func TestClientRetrieveEpisodes(t *testing.T) {
	graphDriver := &mockDriver{
		episodes: []*types.Node{
			{Uuid: "ep1", Type: types.EpisodicNodeType},
			{Uuid: "ep2", Type: types.EpisodicNodeType},
		},
	}
	client, err := New(graphDriver, &mockEmbedder{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	episodes, err := client.GetEpisodes(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(episodes) != 2 {
		t.Errorf("expected 2 episodes, got %d", len(episodes))
	}
	if len(graphDriver.lastGroupIDs) != 1 || graphDriver.lastGroupIDs[0] != "default" {
		t.Errorf("expected default group scoping, got %v", graphDriver.lastGroupIDs)
	}
}

func TestClientLifecycle(t *testing.T) {
	graphDriver := &mockDriver{}
	embedderClient := &mockEmbedder{}
	client, err := New(graphDriver, embedderClient, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.CreateIndices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !graphDriver.indices {
		t.Error("expected CreateIndices delegated to driver")
	}

	if err := client.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !graphDriver.closed || !embedderClient.closed {
		t.Error("expected both collaborators closed")
	}
}
