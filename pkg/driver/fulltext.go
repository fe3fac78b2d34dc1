package driver

import (
	"fmt"
	"strings"
)

// MaxQueryWords caps how many words a fulltext query may contain before it is
// rejected outright; Lucene chokes on pathological inputs long before that.
const MaxQueryWords = 128

var luceneReplacer = strings.NewReplacer(
	"+", "\\+",
	"-", "\\-",
	"&&", "\\&&",
	"||", "\\||",
	"!", "\\!",
	"(", "\\(",
	")", "\\)",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"^", "\\^",
	"~", "\\~",
	"*", "\\*",
	"?", "\\?",
	":", "\\:",
	"/", "\\/",
	"\"", "\\\"",
)

// FulltextQuery builds a Lucene query for the edge fulltext index, escaping
// operator characters and scoping to the given group when set. An empty or
// oversized query yields the empty string, which callers treat as no results.
func FulltextQuery(query, groupID string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	if len(strings.Fields(query)) > MaxQueryWords {
		return ""
	}

	sanitized := luceneReplacer.Replace(query)
	if groupID == "" {
		return sanitized
	}
	return fmt.Sprintf(`(group_id:"%s") AND (%s)`, groupID, sanitized)
}
