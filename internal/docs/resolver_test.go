package docs

import (
	"os"
	"path/filepath"
	"testing"
)

func testTree(t *testing.T) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("basics/agents/overview.mdx", "# Agents")
	write("basics/agents/tools.md", "# Tools")
	write("reference/agents.mdx", "# Reference")
	write("basics/notes.txt", "not a doc")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r, root
}

func TestResolve_EmptyPathIsRoot(t *testing.T) {
	r, root := testTree(t)
	for _, p := range []string{"", "/", "  ", " / "} {
		loc, found := r.Resolve(p)
		if !found || loc != r.Root() {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, true)", p, loc, found, root)
		}
	}
}

func TestResolve_ExactAndExtensionProbe(t *testing.T) {
	r, _ := testTree(t)

	exact, found := r.Resolve("basics/agents/overview.mdx")
	if !found {
		t.Fatal("exact path not found")
	}
	probed, found := r.Resolve("basics/agents/overview")
	if !found {
		t.Fatal("extension-less path not found")
	}
	if exact != probed {
		t.Errorf("probe mismatch: %q vs %q", exact, probed)
	}

	// Wrong extension gets replaced, not appended.
	replaced, found := r.Resolve("basics/agents/overview.txt")
	if !found || replaced != exact {
		t.Errorf("Resolve with wrong extension = (%q, %v), want (%q, true)", replaced, found, exact)
	}

	if _, found := r.Resolve("basics/agents/tools"); !found {
		t.Error(".md probe failed")
	}
}

func TestResolve_DirectoryFound(t *testing.T) {
	r, _ := testTree(t)
	loc, found := r.Resolve("basics/agents/")
	if !found || !isDir(loc) {
		t.Errorf("Resolve(dir) = (%q, %v)", loc, found)
	}
}

func TestResolve_TraversalBlocked(t *testing.T) {
	r, _ := testTree(t)
	cases := []string{
		"../../etc/passwd",
		"basics/../../outside",
		"..",
	}
	for _, p := range cases {
		if _, found := r.Resolve(p); found {
			t.Errorf("Resolve(%q) found=true, want fail-closed", p)
		}
	}
}

func TestResolve_MissingPath(t *testing.T) {
	r, _ := testTree(t)
	loc, found := r.Resolve("basics/nope")
	if found {
		t.Fatal("expected found=false")
	}
	if loc == "" {
		t.Error("expected the candidate location even when missing")
	}
}

func TestNearestAncestor(t *testing.T) {
	r, root := testTree(t)

	dir, label := r.NearestAncestor("basics/nope")
	if label != "basics" || dir != filepath.Join(root, "basics") {
		t.Errorf("NearestAncestor = (%q, %q), want (basics dir, \"basics\")", dir, label)
	}

	dir, label = r.NearestAncestor("basics/agents/missing/deep")
	if label != "basics/agents" {
		t.Errorf("label = %q, want basics/agents", label)
	}
	if dir != filepath.Join(root, "basics", "agents") {
		t.Errorf("dir = %q", dir)
	}

	dir, label = r.NearestAncestor("completely/unknown")
	if label != "" || dir != r.Root() {
		t.Errorf("NearestAncestor(unknown) = (%q, %q), want (root, \"\")", dir, label)
	}

	dir, label = r.NearestAncestor("")
	if label != "" || dir != r.Root() {
		t.Errorf("NearestAncestor(\"\") = (%q, %q), want (root, \"\")", dir, label)
	}
}

func TestListDirectory(t *testing.T) {
	_, root := testTree(t)

	subdirs, files := ListDirectory(filepath.Join(root, "basics"))
	if len(subdirs) != 1 || subdirs[0] != "agents/" {
		t.Errorf("subdirs = %v, want [agents/]", subdirs)
	}
	// notes.txt is not a document and must be excluded.
	if len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}

	_, files = ListDirectory(filepath.Join(root, "basics", "agents"))
	if len(files) != 2 || files[0] != "overview.mdx" || files[1] != "tools.md" {
		t.Errorf("files = %v, want sorted [overview.mdx tools.md]", files)
	}

	// Non-directory input yields empty lists, not an error.
	subdirs, files = ListDirectory(filepath.Join(root, "basics", "agents", "overview.mdx"))
	if len(subdirs) != 0 || len(files) != 0 {
		t.Errorf("non-dir listing = (%v, %v), want empty", subdirs, files)
	}

	_, files = ListDirectory(filepath.Join(root, "does-not-exist"))
	if len(files) != 0 {
		t.Errorf("missing dir listing = %v, want empty", files)
	}
}

func TestNewResolver_Errors(t *testing.T) {
	if _, err := NewResolver(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent root")
	}

	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewResolver(f); err == nil {
		t.Error("expected error when root is a file")
	}
}
