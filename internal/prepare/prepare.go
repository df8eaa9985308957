// Package prepare stages a documentation checkout into the layout served
// by the tools and records every staged file in a SQLite manifest.
//
// The source checkout is flat (agents/, teams/, memory/, ...) while the
// tools expect a reorganized tree:
//
//	basics/       core concept docs
//	reference/    SDK class and method reference
//	integrations/ database, vectordb, model, and toolkit providers
//	agent-os/     runtime docs
//	how-to/       migration guides (from other/)
//	faq/          FAQ docs
//	examples/     cookbook examples
//
// plus a parallel snippets/ directory of reusable fragments. Re-runs are
// incremental: files whose checksum is unchanged are skipped, and
// manifest entries whose source disappeared are removed from disk.
package prepare

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/halvdan/mimir/internal/checksum"
	"github.com/halvdan/mimir/internal/docs"
	"github.com/halvdan/mimir/internal/parser"
)

// basicsSources are the flat source directories gathered under basics/.
var basicsSources = []string{
	"agents", "teams", "workflows", "tools", "memory", "knowledge",
	"models", "database", "evals", "guardrails", "hitl", "multimodal",
	"reasoning", "sessions", "tracing", "compression", "context",
	"hooks", "skills", "state", "templates", "history",
	"input-output", "run-cancellation", "learning",
}

// directMappings are source directories copied to a (possibly renamed)
// destination under the served root. Order matters: provider remaps
// come after the base integrations/ copy so they can layer into it.
var directMappings = [][2]string{
	{"reference", "reference"},
	{"reference-api", "reference-api"},
	{"agent-os", "agent-os"},
	{"faq", "faq"},
	{"integrations", "integrations"},
	{"production", "production"},
	{"dependencies", "dependencies"},
	{"cookbook", "examples"},
	{"other", "how-to"},
	{"database/providers", "integrations/database"},
	{"knowledge/vector-stores", "integrations/vectordb"},
	{"models/providers", "integrations/models"},
	{"tools/toolkits", "integrations/toolkits"},
	{"observability", "integrations/observability"},
}

// Options configure a staging run.
type Options struct {
	// Source is the documentation checkout to stage from.
	Source string
	// Output is the staging directory; the served tree lands in
	// Output/raw with snippets in Output/snippets and the manifest in
	// Output/manifest.db.
	Output string
	Logger *slog.Logger
}

// Stats summarize a staging run.
type Stats struct {
	Copied   int
	Skipped  int
	Removed  int
	Snippets int
}

// Run stages the source checkout into the output layout. It returns the
// run statistics; a missing source directory is an error, while missing
// optional source subdirectories are simply skipped.
func Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	info, err := os.Stat(opts.Source)
	if err != nil || !info.IsDir() {
		return stats, fmt.Errorf("prepare: source directory not found: %s", opts.Source)
	}

	rawDir := filepath.Join(opts.Output, "raw")
	snippetsDir := filepath.Join(opts.Output, "snippets")
	for _, d := range []string{rawDir, snippetsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return stats, fmt.Errorf("prepare: create %s: %w", d, err)
		}
	}

	manifest, err := OpenManifest(filepath.Join(opts.Output, "manifest.db"))
	if err != nil {
		return stats, err
	}
	defer manifest.Close()

	known, err := manifest.Checksums()
	if err != nil {
		return stats, err
	}

	run := &staging{
		manifest: manifest,
		known:    known,
		staged:   make(map[string]struct{}),
		rawDir:   rawDir,
		log:      log,
	}

	for _, sub := range basicsSources {
		src := filepath.Join(opts.Source, filepath.FromSlash(sub))
		if err := run.stageDir(ctx, src, "basics/"+sub, &stats); err != nil {
			return stats, err
		}
	}

	for _, m := range directMappings {
		src := filepath.Join(opts.Source, filepath.FromSlash(m[0]))
		if err := run.stageDir(ctx, src, m[1], &stats); err != nil {
			return stats, err
		}
	}

	if err := run.stageRootFiles(ctx, opts.Source, &stats); err != nil {
		return stats, err
	}

	if err := stageSnippets(ctx, filepath.Join(opts.Source, "_snippets"), snippetsDir, &stats); err != nil {
		return stats, err
	}

	if err := stageOpenAPI(opts.Source, opts.Output, log); err != nil {
		return stats, err
	}

	if err := run.removeStale(&stats); err != nil {
		return stats, err
	}

	log.Info("staging complete",
		slog.Int("copied", stats.Copied),
		slog.Int("skipped", stats.Skipped),
		slog.Int("removed", stats.Removed),
		slog.Int("snippets", stats.Snippets))
	return stats, nil
}

// staging carries the per-run state shared across the copy passes.
type staging struct {
	manifest *Manifest
	known    map[string]string   // manifest checksums before this run
	staged   map[string]struct{} // relative paths staged this run
	rawDir   string
	log      *slog.Logger
}

// stageDir recursively copies document files from src into destRel under
// the raw dir. A missing src is not an error; optional sections are
// simply absent from some checkouts.
func (s *staging) stageDir(ctx context.Context, src, destRel string, stats *Stats) error {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !docs.IsDocFile(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(src, p)
		if relErr != nil {
			return nil
		}
		return s.stageFile(p, destRel+"/"+filepath.ToSlash(rel), stats)
	})
}

// stageRootFiles copies top-level document files of the checkout
// (introduction, changelog, ...) directly under the raw dir. README.md
// belongs to the checkout, not the docs, and is excluded.
func (s *staging) stageRootFiles(ctx context.Context, source string, stats *Stats) error {
	entries, err := os.ReadDir(source)
	if err != nil {
		return fmt.Errorf("prepare: read source: %w", err)
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || !docs.IsDocFile(e.Name()) || e.Name() == "README.md" {
			continue
		}
		if err := s.stageFile(filepath.Join(source, e.Name()), e.Name(), stats); err != nil {
			return err
		}
	}
	return nil
}

// stageFile copies one source file to destRel under the raw dir unless
// its checksum matches the manifest and the staged copy is still on disk.
func (s *staging) stageFile(src, destRel string, stats *Stats) error {
	if _, done := s.staged[destRel]; done {
		return nil
	}
	s.staged[destRel] = struct{}{}

	data, err := os.ReadFile(src)
	if err != nil {
		s.log.Warn("stage: read failed", slog.String("path", src), slog.String("error", err.Error()))
		return nil
	}

	dest := filepath.Join(s.rawDir, filepath.FromSlash(destRel))
	cs := checksum.Sum(data)
	if s.known[destRel] == cs {
		if _, statErr := os.Stat(dest); statErr == nil {
			stats.Skipped++
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare: create dir for %s: %w", destRel, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("prepare: write %s: %w", destRel, err)
	}

	fm, _ := parser.ParseFrontmatter(string(data))
	entry := FileEntry{
		Path:     destRel,
		Title:    parser.Title(fm, destRel),
		Category: category(destRel),
		Checksum: cs,
	}
	if err := s.manifest.Upsert(entry); err != nil {
		return err
	}

	stats.Copied++
	s.log.Debug("stage: copied", slog.String("path", destRel))
	return nil
}

// removeStale deletes staged files and manifest rows for entries that
// were not produced by this run.
func (s *staging) removeStale(stats *Stats) error {
	for rel := range s.known {
		if _, ok := s.staged[rel]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.rawDir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
			s.log.Warn("stage: remove failed", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		if err := s.manifest.Delete(rel); err != nil {
			return err
		}
		stats.Removed++
		s.log.Debug("stage: removed stale", slog.String("path", rel))
	}
	return nil
}

// stageSnippets copies the _snippets directory verbatim (document files
// only). Snippets are not manifest-tracked; the tree is small and the
// expander caches by name.
func stageSnippets(ctx context.Context, src, dest string, stats *Stats) error {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !docs.IsDocFile(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(src, p)
		if relErr != nil {
			return nil
		}
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return nil
		}
		target := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		stats.Snippets++
		return nil
	})
}

// stageOpenAPI copies the REST API specification next to the raw dir
// where the api tool expects it.
func stageOpenAPI(source, output string, log *slog.Logger) error {
	src := filepath.Join(source, "reference-api", "openapi.json")
	data, err := os.ReadFile(src)
	if err != nil {
		return nil
	}
	if err := os.WriteFile(filepath.Join(output, "openapi.json"), data, 0o644); err != nil {
		return fmt.Errorf("prepare: write openapi.json: %w", err)
	}
	log.Debug("stage: copied openapi.json")
	return nil
}

func category(rel string) string {
	if i := strings.Index(rel, "/"); i >= 0 {
		return rel[:i]
	}
	return "root"
}
