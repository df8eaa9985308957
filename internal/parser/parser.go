// Package parser splits frontmatter metadata from document bodies.
//
// Parsing is best-effort by design: malformed or absent frontmatter yields
// an empty mapping and the input unchanged, never an error. The serving
// layer must always be able to hand back document text.
package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// closingDelimRe matches a line containing only the closing frontmatter
// delimiter, searched after the opening one.
var closingDelimRe = regexp.MustCompile(`\n---[ \t]*\r?\n`)

// ParseFrontmatter splits raw document text into its frontmatter mapping
// and body. When raw does not start with the delimiter, the closing
// delimiter is missing, or the YAML block does not decode, the result is
// an empty mapping and raw unchanged.
func ParseFrontmatter(raw string) (map[string]any, string) {
	if !strings.HasPrefix(raw, delim) {
		return map[string]any{}, raw
	}

	rest := raw[len(delim):]
	loc := closingDelimRe.FindStringIndex(rest)
	if loc == nil {
		return map[string]any{}, raw
	}

	block := rest[:loc[0]]
	body := rest[loc[1]:]

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return map[string]any{}, raw
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, body
}

// Title returns the frontmatter title, falling back to a human-readable
// form of the file name (separators replaced by spaces, words capitalized).
func Title(fm map[string]any, path string) string {
	if t, ok := fm["title"].(string); ok && t != "" {
		return t
	}
	return TitleFromFilename(path)
}

// Description returns the frontmatter description, or "".
func Description(fm map[string]any) string {
	if d, ok := fm["description"].(string); ok {
		return d
	}
	return ""
}

// TitleFromFilename derives a display title from a document path:
// "basics/agent-tools.mdx" becomes "Agent Tools".
func TitleFromFilename(path string) string {
	name := filepath.Base(filepath.FromSlash(path))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
