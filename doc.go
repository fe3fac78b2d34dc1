// Package recall is a hybrid retrieval engine for temporal knowledge graphs.
//
// Given a natural-language query and a reference timestamp, it returns a
// bounded, deduplicated bundle of graph context: recent episodes, the
// entities they mention, and relationship edges ranked by the configured
// retrieval strategies. Full-text (BM25) and vector (cosine) edge searches
// run concurrently and their rankings are reconciled with Reciprocal Rank
// Fusion.
//
// The engine is a library boundary: graph storage, embedding generation, and
// any network surface are collaborators behind narrow interfaces
// (pkg/driver.GraphDriver and pkg/embedder.Client). A reference Neo4j driver,
// OpenAI and local embedders, and a thin gin HTTP server are provided.
//
// Basic usage:
//
//	graphDriver, err := driver.NewNeo4jDriver(uri, user, pass, "neo4j")
//	if err != nil { ... }
//	embedderClient, err := embedder.NewOpenAIClient(embedder.DefaultOpenAIConfig(apiKey))
//	if err != nil { ... }
//
//	client, err := recall.New(graphDriver, embedderClient, nil, nil)
//	if err != nil { ... }
//	defer client.Close(ctx)
//
//	results, err := client.Search(ctx, "who acquired the startup?", time.Now(), nil)
package recall
