// Package search implements the lazy document index and the keyword
// ranking engine that orders documents by path and content relevance.
package search

import (
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/halvdan/mimir/internal/docs"
)

// Index caches the flat list of document paths per root directory.
// The document tree is treated as immutable for the process lifetime;
// Invalidate is the explicit hook for out-of-band restaging.
type Index struct {
	mu    sync.RWMutex
	roots map[string][]string // canonical root -> sorted relative paths

	group singleflight.Group
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{roots: make(map[string][]string)}
}

// Paths returns every document path under root, relative and
// slash-separated, enumerating the tree on first access. Concurrent
// first accesses to the same root share one enumeration. Unreadable
// subdirectories are skipped; enumeration never fails outright.
func (ix *Index) Paths(root string) []string {
	key := canonicalRoot(root)

	ix.mu.RLock()
	cached, ok := ix.roots[key]
	ix.mu.RUnlock()
	if ok {
		return cached
	}

	v, _, _ := ix.group.Do(key, func() (any, error) {
		ix.mu.RLock()
		cached, ok := ix.roots[key]
		ix.mu.RUnlock()
		if ok {
			return cached, nil
		}

		listed := enumerate(key)

		ix.mu.Lock()
		ix.roots[key] = listed
		ix.mu.Unlock()
		return listed, nil
	})
	return v.([]string)
}

// Invalidate drops the cached listing for root.
func (ix *Index) Invalidate(root string) {
	key := canonicalRoot(root)
	ix.mu.Lock()
	delete(ix.roots, key)
	ix.mu.Unlock()
}

// enumerate walks root collecting relative paths of document files.
// Walk errors (unreadable directories, races with deletion) are
// swallowed; partial results are acceptable.
func enumerate(root string) []string {
	var out []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !docs.IsDocFile(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out
}

func canonicalRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return abs
}
