package search

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/graphrecall/recall/pkg/types"
)

// FormatEdgeDateRange formats the validity window of an edge for display.
func FormatEdgeDateRange(edge *types.EntityEdge) string {
	validAtStr := "date unknown"
	if edge.ValidAt != nil {
		validAtStr = edge.ValidAt.Format(time.RFC3339)
	}

	invalidAtStr := "present"
	if edge.InvalidAt != nil {
		invalidAtStr = edge.InvalidAt.Format(time.RFC3339)
	}

	return fmt.Sprintf("%s - %s", validAtStr, invalidAtStr)
}

// ResultsToContextString reformats a result bundle into a single string to
// pass directly to an LLM as conversation context.
func ResultsToContextString(results *types.SearchResults) (string, error) {
	var factJSON []map[string]interface{}
	for _, edge := range results.Edges {
		validAtStr := ""
		if edge.ValidAt != nil {
			validAtStr = edge.ValidAt.Format(time.RFC3339)
		}
		invalidAtStr := "Present"
		if edge.InvalidAt != nil {
			invalidAtStr = edge.InvalidAt.Format(time.RFC3339)
		}
		factJSON = append(factJSON, map[string]interface{}{
			"fact":       edge.Fact,
			"valid_at":   validAtStr,
			"invalid_at": invalidAtStr,
		})
	}

	var entityJSON []map[string]interface{}
	for _, node := range results.Nodes {
		entityJSON = append(entityJSON, map[string]interface{}{
			"entity_name": node.Name,
			"summary":     node.Summary,
		})
	}

	var episodeJSON []map[string]interface{}
	for _, node := range results.Episodes {
		episodeJSON = append(episodeJSON, map[string]interface{}{
			"episode_name": node.Name,
			"content":      node.Content,
		})
	}

	factStr, err := json.MarshalIndent(factJSON, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal fact JSON: %w", err)
	}
	entityStr, err := json.MarshalIndent(entityJSON, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal entity JSON: %w", err)
	}
	episodeStr, err := json.MarshalIndent(episodeJSON, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal episode JSON: %w", err)
	}

	contextString := fmt.Sprintf(`FACTS and ENTITIES represent relevant context to the current conversation.

These are the most relevant facts and their valid and invalid dates. Facts are
considered valid between their valid_at and invalid_at dates. Facts with an
invalid_at date of "Present" are considered valid.
<FACTS>
%s
</FACTS>
<ENTITIES>
%s
</ENTITIES>
<EPISODES>
%s
</EPISODES>`, factStr, entityStr, episodeStr)

	return contextString, nil
}
