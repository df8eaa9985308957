package mcpserver

import (
	"sort"
	"strings"
)

// The tables below map the caller-facing topic vocabulary onto fixed
// sub-paths of the staged tree. They are plain data: routing decisions
// live here, never in the ranking engine.

// ReferenceTopics are the valid topics for the reference tool.
var ReferenceTopics = []string{
	"agents",
	"teams",
	"workflows",
	"tools",
	"models",
	"memory",
	"knowledge",
	"storage",
	"hooks",
	"compression",
	"reasoning",
	"agent-os",
}

// ExampleCategories maps example categories to directory paths.
var ExampleCategories = map[string]string{
	"agents":     "examples/agents",
	"teams":      "examples/teams",
	"workflows":  "examples/workflows",
	"tools":      "examples/tools",
	"memory":     "examples/memory",
	"knowledge":  "examples/knowledge",
	"models":     "examples/models",
	"database":   "examples/database",
	"evals":      "examples/evals",
	"guardrails": "examples/guardrails",
	"hitl":       "examples/hitl",
	"multimodal": "examples/multimodal",
	"reasoning":  "examples/reasoning",
	"sessions":   "examples/sessions",
	"tracing":    "examples/tracing",
}

// IntegrationTypes maps integration types to directory paths.
var IntegrationTypes = map[string]string{
	"database":      "integrations/database",
	"vectordb":      "integrations/vectordb",
	"models":        "integrations/models",
	"toolkits":      "integrations/toolkits",
	"memory":        "integrations/memory",
	"observability": "integrations/observability",
	"discord":       "integrations/discord",
	"testing":       "integrations/testing",
}

// GuideTopics maps migration and how-to topics to document paths.
var GuideTopics = map[string]string{
	"v2-migration":        "how-to/v2-migration",
	"workflows-migration": "how-to/workflows-migration",
	"installation":        "how-to/install",
	"contributing":        "how-to/contribute",
	"changelog":           "how-to/v2-changelog",
}

// FAQTopics maps FAQ topics to document paths.
var FAQTopics = map[string]string{
	"agentos-connection": "faq/agentos-connection",
	"docker-connection":  "faq/could-not-connect-to-docker",
	"environment":        "faq/environment-variables",
	"openai-key":         "faq/openai-key-request-for-other-models",
	"rbac-auth":          "faq/rbac-auth-failed",
	"structured-outputs": "faq/structured-outputs",
	"switching-models":   "faq/switching-models",
	"tpm":                "faq/tpm-issues",
}

// ResourcePatterns maps API resource names to endpoint path substrings
// in the staged OpenAPI specification.
var ResourcePatterns = map[string][]string{
	"memory":    {"/memories", "/memory_topics"},
	"agents":    {"/agents"},
	"teams":     {"/teams"},
	"workflows": {"/workflows"},
	"sessions":  {"/sessions"},
	"knowledge": {"/knowledge", "/content"},
	"evals":     {"/evals", "/evaluation"},
	"traces":    {"/traces", "/spans"},
	"metrics":   {"/metrics"},
	"database":  {"/database", "/migrate"},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeTopic(topic string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(topic)), "/")
}

func containsTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
