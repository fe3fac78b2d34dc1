package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/graphrecall/recall/pkg/types"
)

const defaultSearchLimit = 10

// Index names the driver expects; CreateIndices provisions them.
const (
	edgeFulltextIndex = "edge_name_and_fact"
	edgeVectorIndex   = "edge_fact_embedding"
)

// Neo4jDriver implements the GraphDriver contract for Neo4j databases.
type Neo4jDriver struct {
	client           neo4j.DriverWithContext
	database         string
	vectorDimensions int
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:           client,
		database:         database,
		vectorDimensions: 1536,
	}, nil
}

// SetVectorDimensions overrides the width of the relationship vector index
// created by CreateIndices. Must match the embedder's expected dimension.
func (n *Neo4jDriver) SetVectorDimensions(dims int) {
	if dims > 0 {
		n.vectorDimensions = dims
	}
}

// RetrieveEpisodes retrieves up to limit episodic nodes valid at or before
// referenceTime, most recent first from the store, returned in chronological
// order (oldest first).
func (n *Neo4jDriver) RetrieveEpisodes(ctx context.Context, referenceTime time.Time, groupIDs []string, limit int) ([]*types.Node, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		queryParams := map[string]any{
			// LocalDateTime compares natively against the stored valid_at.
			"reference_time": neo4j.LocalDateTimeOf(referenceTime),
			"num_episodes":   limit,
		}

		queryFilter := ""
		if len(groupIDs) > 0 {
			queryFilter = "\nAND e.group_id IN $group_ids"
			queryParams["group_ids"] = groupIDs
		}

		query := fmt.Sprintf(`
			MATCH (e:Episodic)
			WHERE e.valid_at <= $reference_time
			%s
			RETURN e
			ORDER BY e.valid_at DESC
			LIMIT $num_episodes
		`, queryFilter)

		res, err := tx.Run(ctx, query, queryParams)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve episodes: %w", err)
	}

	episodes := nodesFromRecords(result.([]*db.Record), "e")
	types.ReverseNodes(episodes)
	return episodes, nil
}

// GetMentionedNodes returns the entity nodes mentioned by the given episodes.
func (n *Neo4jDriver) GetMentionedNodes(ctx context.Context, episodes []*types.Node) ([]*types.Node, error) {
	if len(episodes) == 0 {
		return []*types.Node{}, nil
	}

	uuids := make([]string, 0, len(episodes))
	for _, episode := range episodes {
		uuids = append(uuids, episode.Uuid)
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Episodic)-[:MENTIONS]->(m:Entity)
			WHERE e.uuid IN $uuids
			RETURN DISTINCT m
		`
		res, err := tx.Run(ctx, query, map[string]any{"uuids": uuids})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve mentioned nodes: %w", err)
	}

	return nodesFromRecords(result.([]*db.Record), "m"), nil
}

// SearchEdges performs BM25 fulltext search over edge names and facts via the
// relationship fulltext index, ordered by lexical relevance.
func (n *Neo4jDriver) SearchEdges(ctx context.Context, query, groupID string, options *SearchOptions) ([]*types.EntityEdge, error) {
	limit := defaultSearchLimit
	if options != nil && options.Limit > 0 {
		limit = options.Limit
	}

	fulltext := FulltextQuery(query, groupID)
	if fulltext == "" {
		return []*types.EntityEdge{}, nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		searchQuery := fmt.Sprintf(`
			CALL db.index.fulltext.queryRelationships("%s", $query)
			YIELD relationship AS r, score
			MATCH (s:Entity)-[r]->(t:Entity)
			RETURN r, s.uuid AS source_uuid, t.uuid AS target_uuid
			ORDER BY score DESC
			LIMIT $limit
		`, edgeFulltextIndex)

		res, err := tx.Run(ctx, searchQuery, map[string]any{
			"query": fulltext,
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fulltext edge search failed: %w", err)
	}

	return edgesFromRecords(result.([]*db.Record)), nil
}

// SearchEdgesByVector returns edges ordered by descending cosine similarity
// between their fact embedding and the query vector.
func (n *Neo4jDriver) SearchEdgesByVector(ctx context.Context, vector []float32, groupID string, options *VectorSearchOptions) ([]*types.EntityEdge, error) {
	if len(vector) == 0 {
		return []*types.EntityEdge{}, nil
	}

	limit := defaultSearchLimit
	minScore := 0.0
	if options != nil {
		if options.Limit > 0 {
			limit = options.Limit
		}
		if options.MinScore > 0 {
			minScore = options.MinScore
		}
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		queryParams := map[string]any{
			"vector":    float32sToFloat64s(vector),
			"limit":     limit,
			"min_score": minScore,
		}

		groupFilter := ""
		if groupID != "" {
			groupFilter = "AND r.group_id = $group_id"
			queryParams["group_id"] = groupID
		}

		query := fmt.Sprintf(`
			MATCH (s:Entity)-[r:RELATES_TO]->(t:Entity)
			WHERE r.fact_embedding IS NOT NULL %s
			WITH r, s, t, vector.similarity.cosine(r.fact_embedding, $vector) AS score
			WHERE score >= $min_score
			RETURN r, s.uuid AS source_uuid, t.uuid AS target_uuid
			ORDER BY score DESC
			LIMIT $limit
		`, groupFilter)

		res, err := tx.Run(ctx, query, queryParams)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("similarity edge search failed: %w", err)
	}

	return edgesFromRecords(result.([]*db.Record)), nil
}

// CreateIndices provisions the fulltext and vector indices the search
// strategies rely on, plus uuid constraints. Idempotent.
func (n *Neo4jDriver) CreateIndices(ctx context.Context) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT entity_uuid IF NOT EXISTS FOR (n:Entity) REQUIRE n.uuid IS UNIQUE`,
		`CREATE CONSTRAINT episodic_uuid IF NOT EXISTS FOR (n:Episodic) REQUIRE n.uuid IS UNIQUE`,
		fmt.Sprintf(`CREATE FULLTEXT INDEX %s IF NOT EXISTS FOR ()-[r:RELATES_TO]-() ON EACH [r.name, r.fact, r.group_id]`, edgeFulltextIndex),
		fmt.Sprintf("CREATE VECTOR INDEX %s IF NOT EXISTS FOR ()-[r:RELATES_TO]-() ON r.fact_embedding "+
			"OPTIONS {indexConfig: {`vector.dimensions`: %d, `vector.similarity_function`: 'cosine'}}",
			edgeVectorIndex, n.vectorDimensions),
	}

	for _, statement := range statements {
		if _, err := session.Run(ctx, statement, nil); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Close releases all resources held by the driver.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

// --- record parsing ---

func nodesFromRecords(records []*db.Record, key string) []*types.Node {
	nodes := make([]*types.Node, 0, len(records))
	for _, record := range records {
		value, found := record.Get(key)
		if !found {
			continue
		}
		dbNode, ok := value.(dbtype.Node)
		if !ok {
			continue
		}
		nodes = append(nodes, nodeFromDBNode(dbNode))
	}
	return nodes
}

func edgesFromRecords(records []*db.Record) []*types.EntityEdge {
	edges := make([]*types.EntityEdge, 0, len(records))
	for _, record := range records {
		relValue, found := record.Get("r")
		if !found {
			continue
		}
		rel, ok := relValue.(dbtype.Relationship)
		if !ok {
			continue
		}
		sourceUUID, _ := stringValue(record, "source_uuid")
		targetUUID, _ := stringValue(record, "target_uuid")
		edges = append(edges, edgeFromDBRelationship(rel, sourceUUID, targetUUID))
	}
	return edges
}

func nodeFromDBNode(dbNode dbtype.Node) *types.Node {
	props := dbNode.Props
	node := &types.Node{
		Uuid:        stringProp(props, "uuid"),
		Name:        stringProp(props, "name"),
		GroupID:     stringProp(props, "group_id"),
		Summary:     stringProp(props, "summary"),
		EntityType:  stringProp(props, "entity_type"),
		Content:     stringProp(props, "content"),
		EpisodeType: types.EpisodeType(stringProp(props, "episode_type")),
		CreatedAt:   timeProp(props, "created_at"),
		ValidAt:     timeProp(props, "valid_at"),
		EntityEdges: stringSliceProp(props, "entity_edges"),
	}

	node.Type = types.EntityNodeType
	for _, label := range dbNode.Labels {
		if label == "Episodic" {
			node.Type = types.EpisodicNodeType
			break
		}
	}
	return node
}

func edgeFromDBRelationship(rel dbtype.Relationship, sourceUUID, targetUUID string) *types.EntityEdge {
	props := rel.Props
	edge := &types.EntityEdge{
		Uuid:          stringProp(props, "uuid"),
		Name:          stringProp(props, "name"),
		GroupID:       stringProp(props, "group_id"),
		SourceNodeID:  sourceUUID,
		TargetNodeID:  targetUUID,
		Fact:          stringProp(props, "fact"),
		FactEmbedding: float32SliceProp(props, "fact_embedding"),
		Episodes:      stringSliceProp(props, "episodes"),
		CreatedAt:     timeProp(props, "created_at"),
	}
	if t := timeProp(props, "valid_at"); !t.IsZero() {
		edge.ValidAt = &t
	}
	if t := timeProp(props, "invalid_at"); !t.IsZero() {
		edge.InvalidAt = &t
	}
	if t := timeProp(props, "expired_at"); !t.IsZero() {
		edge.ExpiredAt = &t
	}
	return edge
}

func stringValue(record *db.Record, key string) (string, bool) {
	value, found := record.Get(key)
	if !found {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

func stringProp(props map[string]any, key string) string {
	if value, ok := props[key].(string); ok {
		return value
	}
	return ""
}

func timeProp(props map[string]any, key string) time.Time {
	switch value := props[key].(type) {
	case time.Time:
		return value
	case dbtype.LocalDateTime:
		return value.Time()
	case string:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stringSliceProp(props map[string]any, key string) []string {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}

func float32SliceProp(props map[string]any, key string) []float32 {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}
	values := make([]float32, 0, len(raw))
	for _, item := range raw {
		if f, ok := item.(float64); ok {
			values = append(values, float32(f))
		}
	}
	return values
}

func float32sToFloat64s(vector []float32) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}
