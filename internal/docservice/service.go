// Package docservice composes path resolution, content loading, and
// keyword ranking into the caller-facing fetch and fallback operations.
package docservice

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/halvdan/mimir/internal/apperr"
	"github.com/halvdan/mimir/internal/docs"
	"github.com/halvdan/mimir/internal/parser"
	"github.com/halvdan/mimir/internal/search"
	"github.com/halvdan/mimir/internal/snippet"
)

// Document is a loaded document with frontmatter split off and snippet
// tags expanded. Constructed fresh on each read.
type Document struct {
	Path        string
	Frontmatter map[string]any
	Title       string
	Description string
	Body        string
}

// Service coordinates the resolver, snippet expander, and ranking engine.
type Service struct {
	resolver     *docs.Resolver
	snippets     *snippet.Resolver
	engine       *search.Engine
	snippetDepth int
	limit        int
	log          *slog.Logger
}

// New creates a Service. snippetDepth and limit fall back to defaults
// when non-positive.
func New(resolver *docs.Resolver, snippets *snippet.Resolver, engine *search.Engine, snippetDepth, limit int, log *slog.Logger) *Service {
	if snippetDepth <= 0 {
		snippetDepth = snippet.DefaultMaxDepth
	}
	if limit <= 0 {
		limit = search.DefaultSuggestionLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		resolver:     resolver,
		snippets:     snippets,
		engine:       engine,
		snippetDepth: snippetDepth,
		limit:        limit,
		log:          log,
	}
}

// Root returns the absolute document root being served.
func (s *Service) Root() string {
	return s.resolver.Root()
}

// LoadDocument reads and assembles the document at the absolute location
// loc, displayed as rel. Content loading always succeeds: unreadable
// files surface the error inline in the body.
func (s *Service) LoadDocument(rel, loc string) *Document {
	data, err := os.ReadFile(loc)
	if err != nil {
		s.log.Warn("document read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return &Document{
			Path:        rel,
			Frontmatter: map[string]any{},
			Title:       parser.TitleFromFilename(rel),
			Body:        fmt.Sprintf("Error reading file: %v", err),
		}
	}

	fm, body := parser.ParseFrontmatter(string(data))
	body = s.snippets.Expand(body, s.snippetDepth)

	return &Document{
		Path:        rel,
		Frontmatter: fm,
		Title:       parser.Title(fm, rel),
		Description: parser.Description(fm),
		Body:        body,
	}
}

// Fetch returns rendered markdown for a documentation path: file
// content, a directory listing, or the not-found fallback. Keywords, if
// any, add ranked suggestions to directory and fallback responses.
func (s *Service) Fetch(docPath string, keywords []string) string {
	content, _ := s.Get(docPath, keywords)
	return content
}

// Get is Fetch with the resolution outcome surfaced: the error is
// apperr.ErrUnsafePath for traversal attempts and apperr.ErrNotFound
// for missing paths. The content is always usable; unresolved paths
// carry the fallback listing.
func (s *Service) Get(docPath string, keywords []string) (string, error) {
	loc, found := s.resolver.Resolve(docPath)
	if !found {
		if s.resolver.IsUnsafe(docPath) {
			return s.NotFound(docPath, keywords), apperr.ErrUnsafePath
		}
		return s.NotFound(docPath, keywords), apperr.ErrNotFound
	}

	rel := docs.Normalize(docPath)
	display := rel
	if display == "" {
		display = "/"
	}

	info, err := os.Stat(loc)
	if err != nil {
		return s.NotFound(docPath, keywords), apperr.ErrNotFound
	}

	if info.IsDir() {
		content := s.renderDirectory(loc, rel)
		if len(keywords) > 0 {
			if suggestions := s.engine.SuggestFromPath(docPath, keywords, s.Root()); suggestions != "" {
				content += "\n\n" + suggestions
			}
		}
		return fmt.Sprintf("## %s\n\n%s", display, content), nil
	}

	return s.renderFile(s.LoadDocument(display, loc)), nil
}

// NotFound composes the always-actionable fallback for an unresolved
// path: the nearest existing ancestor's listing, plus ranked keyword
// suggestions when keywords were supplied. Never a bare failure.
func (s *Service) NotFound(docPath string, keywords []string) string {
	dir, label := s.resolver.NearestAncestor(docPath)
	subdirs, files := docs.ListDirectory(dir)

	var suggestions []string
	if len(keywords) > 0 {
		suggestions = s.engine.Rank(search.Normalize(keywords), s.Root(), search.DefaultSuggestionLimit)
	}

	return fmt.Sprintf("## %s\n\n%s", docs.Normalize(docPath),
		renderNotFound(docs.Normalize(docPath), label, subdirs, files, suggestions))
}

// Search ranks documents for normalized keywords, capped at the
// configured limit.
func (s *Service) Search(keywords []string, limit int) []string {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	return s.engine.Rank(search.Normalize(keywords), s.Root(), limit)
}

// TopLevel renders the available top-level paths of the served tree.
func (s *Service) TopLevel() string {
	return renderTopLevel(s.Root())
}
