package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/halvdan/mimir/internal/docs"
	"github.com/halvdan/mimir/internal/docservice"
	"github.com/halvdan/mimir/internal/search"
	"github.com/halvdan/mimir/internal/snippet"
)

// testEnv sets up a temp documentation tree, service, and router.
// authToken="" means disabled mode; non-empty means token mode.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "raw")

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

	write("basics/agents/overview.mdx",
		"---\ntitle: Agents Overview\n---\nAgents come with streaming support.\n")
	write("reference/agents.mdx", "# Agent Reference\n")

	resolver, err := docs.NewResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	svc := docservice.New(resolver, snippet.NewResolver(filepath.Join(base, "snippets")),
		search.NewEngine(search.NewIndex()), 3, 10, nil)

	return NewRouter(svc, authToken != "", authToken)
}

func TestGetDoc(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/docs/basics/agents/overview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get doc = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "# Agents Overview") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetDoc_RootListing(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("root listing = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "`basics/`") {
		t.Errorf("root listing missing top-level dirs:\n%s", w.Body.String())
	}
}

func TestGetDoc_MissingReturns404WithFallback(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/docs/basics/nope?keywords=streaming", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing doc = %d, want 404 with fallback body", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "not found") {
		t.Errorf("fallback missing:\n%s", body)
	}
	if !strings.Contains(body, "basics/agents/overview.mdx") {
		t.Errorf("keyword suggestion missing:\n%s", body)
	}
}

func TestGetDoc_TraversalReturns400(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/docs/..%2F..%2Fetc%2Fpasswd", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("traversal = %d, want 400", w.Code)
	}
	if strings.Contains(w.Body.String(), "root:") {
		t.Errorf("traversal leaked file content:\n%s", w.Body.String())
	}
}

func TestGetDoc_EncodedSlashes(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/docs/basics%2Fagents%2Foverview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("encoded path = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "# Agents Overview") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/search?q=streaming", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0] != "basics/agents/overview.mdx" {
		t.Errorf("results = %v", resp.Results)
	}
}

func TestSearchEndpoint_NoMatchesEmptyArray(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/search?q=zzzznothing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("want empty array, got %s", w.Body.String())
	}
}

func TestSearchMissingQuery(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/search?q=streaming", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed search = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}
