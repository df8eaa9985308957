package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// openAPIMethods are the HTTP methods surfaced from the specification.
var openAPIMethods = []string{"get", "post", "put", "delete", "patch"}

type openAPIOperation struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// loadOpenAPISpec reads the staged openapi.json next to the document
// root. A missing or malformed spec returns nil; the api tool degrades
// to an informative message.
func (s *Server) loadOpenAPISpec() map[string]map[string]json.RawMessage {
	specPath := filepath.Join(filepath.Dir(s.svc.Root()), "openapi.json")
	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil
	}

	var spec struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil
	}
	return spec.Paths
}

// renderAPIResource lists endpoints matching the resource's path
// patterns, or all available resources when resource is empty.
func (s *Server) renderAPIResource(resource string) string {
	paths := s.loadOpenAPISpec()
	if paths == nil {
		return "OpenAPI specification not staged. Run the prepare command with a source that includes openapi.json."
	}

	if resource == "" {
		return "**Available API resources:** " + strings.Join(sortedKeys(ResourcePatterns), ", ")
	}

	patterns, ok := ResourcePatterns[resource]
	if !ok {
		patterns = []string{"/" + resource}
	}

	endpointPaths := make([]string, 0, len(paths))
	for p := range paths {
		lower := strings.ToLower(p)
		for _, pattern := range patterns {
			if strings.Contains(lower, pattern) {
				endpointPaths = append(endpointPaths, p)
				break
			}
		}
	}
	sort.Strings(endpointPaths)

	if len(endpointPaths) == 0 {
		return fmt.Sprintf("No endpoints found for resource `%s`.\n\n**Available resources:** %s",
			resource, strings.Join(sortedKeys(ResourcePatterns), ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## API endpoints: %s\n", resource)
	for _, p := range endpointPaths {
		for _, method := range openAPIMethods {
			raw, ok := paths[p][method]
			if !ok {
				continue
			}
			var op openAPIOperation
			if err := json.Unmarshal(raw, &op); err != nil {
				continue
			}
			fmt.Fprintf(&b, "\n### %s %s\n", strings.ToUpper(method), p)
			if op.Summary != "" {
				fmt.Fprintf(&b, "%s\n", op.Summary)
			}
			if op.Description != "" && op.Description != op.Summary {
				fmt.Fprintf(&b, "%s\n", op.Description)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
