// Package search implements hybrid retrieval over the temporal knowledge
// graph: concurrent fan-out of the configured retrieval strategies and
// Reciprocal Rank Fusion of their ranked edge lists.
//
// The orchestrator issues the independent strategies concurrently (full-text
// edge search, embedding generation followed by vector edge search, and the
// episode/mention window), joins all branches, and only then surfaces the
// first failure. Edges found by more than one strategy are fused with RRF;
// a single active strategy's results pass through untouched. Episodes and
// mentioned nodes are never reranked.
package search
