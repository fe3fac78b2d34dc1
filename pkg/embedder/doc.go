// Package embedder provides text embedding clients for vector representations.
//
// The Client interface is the embedding-generation collaborator consumed by
// the retrieval engine. Two implementations are provided: OpenAI
// (text-embedding-3-small and friends) and a local in-process embedder.
// WithCircuitBreaker decorates any Client with failure shedding for remote
// backends.
package embedder
