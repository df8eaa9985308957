package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"

	"github.com/halvdan/mimir/internal/docs"
)

// minKeywordLen discards path fragments too short to be meaningful
// search terms ("v2", "os", single letters).
const minKeywordLen = 3

// KeywordsFromPath derives keyword candidates from the final segment of
// a documentation path, splitting on separators and camelCase
// boundaries. Fragments shorter than three characters are discarded.
func KeywordsFromPath(path string) []string {
	name := docs.Normalize(path)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, docs.ExtMDX)
	name = strings.TrimSuffix(name, docs.ExtMD)

	seen := make(map[string]struct{})
	var out []string
	for _, part := range splitIdentifier(name) {
		part = strings.ToLower(strings.TrimSpace(part))
		if len(part) < minKeywordLen {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}

// Normalize lowercases, splits multi-word keywords, removes English
// stopwords, and de-duplicates. The result is sorted for deterministic
// downstream ranking.
func Normalize(keywords []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, kw := range keywords {
		cleaned := stopwords.CleanString(kw, "en", false)
		for _, word := range strings.Fields(cleaned) {
			word = strings.ToLower(word)
			if word == "" {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			out = append(out, word)
		}
	}
	sort.Strings(out)
	return out
}

// Merge unions two keyword lists, de-duplicated and sorted.
func Merge(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, kw := range append(append([]string{}, a...), b...) {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// splitIdentifier breaks a file name into fragments on hyphens,
// underscores, dots, and lower-to-upper camelCase boundaries.
func splitIdentifier(s string) []string {
	var parts []string
	var current strings.Builder
	var prev rune

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ':
			flush()
		case unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()
	return parts
}
