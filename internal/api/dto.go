package api

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Query   string   `json:"query" example:"async streaming" validate:"required"`
	Results []string `json:"results" example:"basics/agents/overview.mdx" validate:"required"`
}
