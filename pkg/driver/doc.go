// Package driver defines the narrow graph-storage contract the retrieval
// engine consumes, and provides the Neo4j implementation. The engine never
// executes graph queries itself; everything it needs from storage is the
// episode window, mention expansion, and the two ranked edge searches.
package driver
