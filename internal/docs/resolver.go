// Package docs provides sandboxed resolution of documentation paths
// against a staged document tree.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document file extensions, in probe order.
const (
	ExtMDX = ".mdx"
	ExtMD  = ".md"
)

// IsDocFile reports whether name carries a document extension.
func IsDocFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ExtMDX || ext == ExtMD
}

// Resolver maps caller-supplied relative paths to filesystem locations
// under a single sandboxed root. All resolution failures are communicated
// through the found flag; Resolver methods never return errors for
// missing or malicious input.
type Resolver struct {
	root string // absolute path to the document root
}

// NewResolver creates a Resolver rooted at the given directory.
// The directory must already exist.
func NewResolver(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("docs: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("docs: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs: root is not a directory: %s", abs)
	}
	return &Resolver{root: abs}, nil
}

// Root returns the absolute document root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a relative documentation path to a filesystem location.
// An empty path resolves to the root itself. When the exact candidate
// does not exist, the .mdx and then .md extensions are probed, replacing
// any extension already present. The sandbox check runs before any
// existence probe: paths escaping the root always come back found=false.
func (r *Resolver) Resolve(rel string) (string, bool) {
	clean := Normalize(rel)
	if clean == "" {
		return r.root, true
	}

	candidate := filepath.Join(r.root, filepath.FromSlash(clean))
	abs, err := filepath.Abs(candidate)
	if err != nil || !r.contains(abs) {
		return candidate, false
	}

	if pathExists(abs) {
		return abs, true
	}
	for _, ext := range []string{ExtMDX, ExtMD} {
		alt := withSuffix(abs, ext)
		if pathExists(alt) {
			return alt, true
		}
	}
	return abs, false
}

// IsUnsafe reports whether rel lexically escapes the root. Unsafe paths
// also fail Resolve; this distinguishes traversal attempts from paths
// that are merely missing.
func (r *Resolver) IsUnsafe(rel string) bool {
	clean := Normalize(rel)
	if clean == "" {
		return false
	}
	abs, err := filepath.Abs(filepath.Join(r.root, filepath.FromSlash(clean)))
	return err != nil || !r.contains(abs)
}

// NearestAncestor returns the deepest existing directory on the given
// path, together with its root-relative label. When no ancestor below
// the root exists the root itself is returned with an empty label.
func (r *Resolver) NearestAncestor(rel string) (string, string) {
	clean := Normalize(rel)
	if clean == "" {
		return r.root, ""
	}

	parts := strings.Split(clean, "/")
	for len(parts) > 0 {
		candidate := filepath.Join(r.root, filepath.Join(parts...))
		abs, err := filepath.Abs(candidate)
		if err == nil && r.contains(abs) && isDir(abs) {
			return abs, strings.Join(parts, "/")
		}
		parts = parts[:len(parts)-1]
	}
	return r.root, ""
}

// ListDirectory returns the sorted subdirectory names (with a trailing
// slash marker) and document file names directly under dir. A
// non-directory input or an unreadable directory yields two empty lists.
func ListDirectory(dir string) (subdirs, files []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	for _, e := range entries {
		switch {
		case e.IsDir():
			subdirs = append(subdirs, e.Name()+"/")
		case IsDocFile(e.Name()):
			files = append(files, e.Name())
		}
	}
	sort.Strings(subdirs)
	sort.Strings(files)
	return subdirs, files
}

// Normalize trims surrounding whitespace and path separators from a
// caller-supplied documentation path.
func Normalize(rel string) string {
	return strings.Trim(strings.TrimSpace(rel), "/")
}

// contains reports whether abs lies lexically under the root.
func (r *Resolver) contains(abs string) bool {
	return abs == r.root || strings.HasPrefix(abs, r.root+string(os.PathSeparator))
}

// withSuffix replaces the trailing extension of p (if any) with ext.
func withSuffix(p, ext string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ext
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
