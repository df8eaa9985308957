package prepare

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// sourceTree lays out a minimal documentation checkout.
func sourceTree(t *testing.T) string {
	t.Helper()
	source := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(source, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("agents/overview.mdx", "---\ntitle: Agents Overview\n---\nBody.\n")
	write("reference/agents.mdx", "# Agent Reference\n")
	write("cookbook/teams/basic.mdx", "# Basic Team\n")
	write("other/v2-migration.mdx", "# Migration\n")
	write("knowledge/vector-stores/pinecone.mdx", "# Pinecone\n")
	write("introduction.mdx", "# Introduction\n")
	write("README.md", "# Checkout readme\n")
	write("agents/notes.txt", "not a doc\n")
	write("_snippets/install.mdx", "Run the installer.\n")
	write("reference-api/openapi.json", `{"paths":{}}`)

	return source
}

func TestRun_StagesLayout(t *testing.T) {
	source := sourceTree(t)
	output := t.TempDir()

	stats, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, rel := range []string{
		"raw/basics/agents/overview.mdx",
		"raw/reference/agents.mdx",
		"raw/examples/teams/basic.mdx",
		"raw/how-to/v2-migration.mdx",
		"raw/integrations/vectordb/pinecone.mdx",
		"raw/introduction.mdx",
		"snippets/install.mdx",
		"openapi.json",
	} {
		if _, err := os.Stat(filepath.Join(output, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected staged file %s: %v", rel, err)
		}
	}

	for _, rel := range []string{
		"raw/README.md",
		"raw/basics/agents/notes.txt",
	} {
		if _, err := os.Stat(filepath.Join(output, filepath.FromSlash(rel))); err == nil {
			t.Errorf("%s should not be staged", rel)
		}
	}

	if stats.Copied == 0 || stats.Snippets != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRun_ManifestRecordsFiles(t *testing.T) {
	source := sourceTree(t)
	output := t.TempDir()

	if _, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	m, err := OpenManifest(filepath.Join(output, "manifest.db"))
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	defer m.Close()

	checksums, err := m.Checksums()
	if err != nil {
		t.Fatal(err)
	}
	if cs := checksums["basics/agents/overview.mdx"]; cs == "" {
		t.Error("overview.mdx missing from manifest")
	}

	counts, err := m.CategoryCounts()
	if err != nil {
		t.Fatal(err)
	}
	if counts["basics"] == 0 || counts["reference"] == 0 {
		t.Errorf("category counts = %v", counts)
	}
	if counts["root"] != 1 {
		t.Errorf("root count = %d, want 1 (introduction.mdx)", counts["root"])
	}
}

func TestRun_SecondRunSkipsUnchanged(t *testing.T) {
	source := sourceTree(t)
	output := t.TempDir()

	first, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Skipped != 0 {
		t.Errorf("first run skipped = %d, want 0", first.Skipped)
	}

	second, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Copied != 0 {
		t.Errorf("second run copied = %d, want 0", second.Copied)
	}
	if second.Skipped != first.Copied {
		t.Errorf("second run skipped = %d, want %d", second.Skipped, first.Copied)
	}
}

func TestRun_ChangedFileRestaged(t *testing.T) {
	source := sourceTree(t)
	output := t.TempDir()

	if _, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()}); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	changed := filepath.Join(source, "agents", "overview.mdx")
	if err := os.WriteFile(changed, []byte("---\ntitle: Agents Overview\n---\nUpdated body.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.Copied != 1 {
		t.Errorf("copied = %d, want 1", stats.Copied)
	}

	data, err := os.ReadFile(filepath.Join(output, "raw", "basics", "agents", "overview.mdx"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "---\ntitle: Agents Overview\n---\nUpdated body.\n" {
		t.Errorf("staged content not updated: %q", data)
	}
}

func TestRun_RemovesStale(t *testing.T) {
	source := sourceTree(t)
	output := t.TempDir()

	if _, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()}); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	if err := os.Remove(filepath.Join(source, "reference", "agents.mdx")); err != nil {
		t.Fatal(err)
	}

	stats, err := Run(context.Background(), Options{Source: source, Output: output, Logger: testLogger()})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.Removed != 1 {
		t.Errorf("removed = %d, want 1", stats.Removed)
	}
	if _, err := os.Stat(filepath.Join(output, "raw", "reference", "agents.mdx")); err == nil {
		t.Error("stale staged file should be deleted")
	}
}

func TestRun_MissingSource(t *testing.T) {
	if _, err := Run(context.Background(), Options{
		Source: filepath.Join(t.TempDir(), "nope"),
		Output: t.TempDir(),
		Logger: testLogger(),
	}); err == nil {
		t.Fatal("missing source should error")
	}
}
