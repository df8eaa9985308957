package search

import (
	"fmt"
	"strings"
)

// DefaultSuggestionLimit caps the ranked suggestions in fallback blocks.
const DefaultSuggestionLimit = 10

// SuggestFromPath derives keywords from the final segment of queryPath,
// merges them with the normalized extra keywords, and returns a
// formatted suggestion block of ranked paths. Empty output means no
// candidates or no matches; it is not an error.
func (e *Engine) SuggestFromPath(queryPath string, extra []string, root string) string {
	merged := Merge(KeywordsFromPath(queryPath), Normalize(extra))
	if len(merged) == 0 {
		return ""
	}

	ranked := e.Rank(merged, root, DefaultSuggestionLimit)
	if len(ranked) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("**Suggested paths based on your query:**\n\n")
	for _, p := range ranked {
		fmt.Fprintf(&b, "- `%s`\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}
