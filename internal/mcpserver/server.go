// Package mcpserver exposes the documentation tree as MCP tools over
// stdio or streamable HTTP transports.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halvdan/mimir/internal/docservice"
)

// Server wraps the MCP server with the documentation tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates an MCP server with all documentation tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Mimir",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("docs",
		mcp.WithDescription("Get conceptual documentation and guides by path. "+
			"Start with \"basics/\" to see all topics; use paths like \"basics/agents/overview\" for detailed content."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Documentation path, e.g. basics/agents/overview")),
		mcp.WithString("keywords", mcp.Description("Optional space-separated keywords for content-based suggestions")),
	), s.docsTool)

	s.mcp.AddTool(mcp.NewTool("reference",
		mcp.WithDescription("Get SDK class and method reference (parameters, signatures, options). "+
			"Topics: "+strings.Join(ReferenceTopics, ", ")+". Empty topic lists all categories."),
		mcp.WithString("topic", mcp.Description("Reference topic, e.g. agents")),
		mcp.WithString("keywords", mcp.Description("Optional keywords to search within the topic")),
	), s.referenceTool)

	s.mcp.AddTool(mcp.NewTool("examples",
		mcp.WithDescription("Get runnable code examples by category. "+
			"Leave category empty to list all available categories."),
		mcp.WithString("category", mcp.Description("Example category, e.g. agents, teams, workflows")),
	), s.examplesTool)

	s.mcp.AddTool(mcp.NewTool("integrations",
		mcp.WithDescription("Get integration documentation for databases, vector stores, model providers, and toolkits."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Integration type: "+strings.Join(sortedKeys(IntegrationTypes), ", "))),
		mcp.WithString("name", mcp.Description("Specific integration name, e.g. postgres, pinecone. Empty lists all of the type")),
	), s.integrationsTool)

	s.mcp.AddTool(mcp.NewTool("agentos",
		mcp.WithDescription("Get runtime and deployment documentation (REST APIs, security, middleware, interfaces). "+
			"Leave path empty for the section overview."),
		mcp.WithString("path", mcp.Description("Path within the runtime docs, e.g. api/ or features/memories")),
	), s.agentosTool)

	s.mcp.AddTool(mcp.NewTool("guides",
		mcp.WithDescription("Get migration guides and FAQ documentation. Leave topic empty to list all topics."),
		mcp.WithString("topic", mcp.Description("Guide or FAQ topic, e.g. v2-migration, environment")),
	), s.guidesTool)

	s.mcp.AddTool(mcp.NewTool("api",
		mcp.WithDescription("Get REST API endpoints from the staged OpenAPI specification. "+
			"Leave resource empty to list all available resources."),
		mcp.WithString("resource", mcp.Description("API resource: "+strings.Join(sortedKeys(ResourcePatterns), ", "))),
	), s.apiTool)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// HTTPHandler returns a streamable HTTP handler for mounting on the
// REST router at the given endpoint path.
func (s *Server) HTTPHandler(endpoint string) http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(endpoint))
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func splitKeywords(req mcp.CallToolRequest) []string {
	raw := req.GetString("keywords", "")
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

func (s *Server) docsTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.svc.Fetch(path, splitKeywords(req))), nil
}

func (s *Server) referenceTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := normalizeTopic(req.GetString("topic", ""))
	keywords := splitKeywords(req)

	if topic != "" && !containsTopic(ReferenceTopics, topic) {
		suggestions := s.svc.Search(append([]string{topic}, keywords...), 10)
		text := fmt.Sprintf("Unknown reference topic: `%s`\n\n**Available topics:** %s\n\n"+
			"Use one of these topics, or an empty topic to see all categories.",
			topic, strings.Join(ReferenceTopics, ", "))
		if len(suggestions) > 0 {
			text += "\n\n**Suggested reference docs:**\n"
			for _, p := range suggestions {
				text += fmt.Sprintf("- `%s`\n", p)
			}
		}
		return mcp.NewToolResultText(text), nil
	}

	docPath := "reference"
	if topic != "" {
		docPath = "reference/" + topic
	}
	return mcp.NewToolResultText(s.svc.Fetch(docPath, keywords)), nil
}

func (s *Server) examplesTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := normalizeTopic(req.GetString("category", ""))
	if category == "" {
		text := "**Available example categories:** " + strings.Join(sortedKeys(ExampleCategories), ", ")
		return mcp.NewToolResultText(text), nil
	}

	dir, ok := ExampleCategories[category]
	if !ok {
		text := fmt.Sprintf("Unknown category: `%s`\n\n**Available categories:** %s",
			category, strings.Join(sortedKeys(ExampleCategories), ", "))
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultText(s.svc.Fetch(dir, nil)), nil
}

func (s *Server) integrationsTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	integrationType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dir, ok := IntegrationTypes[normalizeTopic(integrationType)]
	if !ok {
		text := fmt.Sprintf("Unknown integration type: `%s`\n\n**Available types:** %s",
			integrationType, strings.Join(sortedKeys(IntegrationTypes), ", "))
		return mcp.NewToolResultText(text), nil
	}

	docPath := dir
	if name := normalizeTopic(req.GetString("name", "")); name != "" {
		docPath = dir + "/" + name
	}
	return mcp.NewToolResultText(s.svc.Fetch(docPath, nil)), nil
}

func (s *Server) agentosTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docPath := "agent-os"
	if p := normalizeTopic(req.GetString("path", "")); p != "" {
		docPath = "agent-os/" + p
	}
	return mcp.NewToolResultText(s.svc.Fetch(docPath, nil)), nil
}

func (s *Server) guidesTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := normalizeTopic(req.GetString("topic", ""))
	if topic == "" {
		text := fmt.Sprintf("**Migration and how-to topics:** %s\n\n**FAQ topics:** %s",
			strings.Join(sortedKeys(GuideTopics), ", "),
			strings.Join(sortedKeys(FAQTopics), ", "))
		return mcp.NewToolResultText(text), nil
	}

	if docPath, ok := GuideTopics[topic]; ok {
		return mcp.NewToolResultText(s.svc.Fetch(docPath, nil)), nil
	}
	if docPath, ok := FAQTopics[topic]; ok {
		return mcp.NewToolResultText(s.svc.Fetch(docPath, nil)), nil
	}

	text := fmt.Sprintf("Unknown topic: `%s`\n\n**Migration and how-to topics:** %s\n\n**FAQ topics:** %s",
		topic,
		strings.Join(sortedKeys(GuideTopics), ", "),
		strings.Join(sortedKeys(FAQTopics), ", "))
	return mcp.NewToolResultText(text), nil
}

func (s *Server) apiTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resource := normalizeTopic(req.GetString("resource", ""))
	return mcp.NewToolResultText(s.renderAPIResource(resource)), nil
}
