// Package snippet expands <Snippet file="..."/> inclusion tags by
// inlining fragment files from a snippets directory.
package snippet

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/halvdan/mimir/internal/docs"
	"github.com/halvdan/mimir/internal/parser"
)

// DefaultMaxDepth bounds recursive expansion of nested fragments.
const DefaultMaxDepth = 3

// tagPattern matches self-closing snippet inclusion tags, e.g.
// <Snippet file="commands/run.mdx" /> or <snippet file='x'/>.
var tagPattern = regexp.MustCompile(`(?i)<Snippet\s+file=["']([^"']+)["']\s*/?>`)

// Resolver inlines snippet fragments with a process-wide cache keyed by
// fragment name. Fragment content is context-independent in the served
// corpus, so the first resolution wins regardless of the depth or
// document it was reached from.
type Resolver struct {
	dir string

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver creates a Resolver reading fragments from dir. The
// directory does not have to exist; missing fragments degrade to inline
// markers.
func NewResolver(dir string) *Resolver {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &Resolver{dir: abs, cache: make(map[string]string)}
}

// Expand replaces every snippet tag in body with its fragment content,
// recursing into nested fragments up to maxDepth levels. At depth zero
// the body is returned with tags left in place, which bounds expansion
// of cyclic fragment graphs.
func (r *Resolver) Expand(body string, maxDepth int) string {
	if maxDepth <= 0 {
		return body
	}
	return tagPattern.ReplaceAllStringFunc(body, func(tag string) string {
		m := tagPattern.FindStringSubmatch(tag)
		if m == nil {
			return tag
		}
		return r.resolve(m[1], maxDepth)
	})
}

// Reset clears the fragment cache. Called by the invalidation watcher.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]string)
	r.mu.Unlock()
}

// resolve returns the expanded content of a single fragment, reading and
// caching it on first use. Failures surface as inline marker comments so
// the containing document always loads.
func (r *Resolver) resolve(name string, depth int) string {
	r.mu.Lock()
	cached, ok := r.cache[name]
	r.mu.Unlock()
	if ok {
		return cached
	}

	path, ok := r.fragmentPath(name)
	if !ok {
		return fmt.Sprintf("<!-- Snippet %s not found -->", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("<!-- Snippet %s could not be loaded -->", name)
	}

	_, body := parser.ParseFrontmatter(string(data))
	resolved := r.Expand(strings.TrimSpace(body), depth-1)

	r.mu.Lock()
	r.cache[name] = resolved
	r.mu.Unlock()
	return resolved
}

// fragmentPath locates a fragment under the snippets directory, trying
// the name as given and then with the document extension appended.
// Names that escape the snippets directory are treated as missing.
func (r *Resolver) fragmentPath(name string) (string, bool) {
	joined := filepath.Join(r.dir, filepath.FromSlash(name))
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", false
	}
	if abs != r.dir && !strings.HasPrefix(abs, r.dir+string(os.PathSeparator)) {
		return "", false
	}

	if fileExists(abs) {
		return abs, true
	}
	if !strings.HasSuffix(name, docs.ExtMDX) {
		if alt := abs + docs.ExtMDX; fileExists(alt) {
			return alt, true
		}
	}
	return "", false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
