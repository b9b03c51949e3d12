// Package tools holds the agent's external collaborators: the Tavily web
// search tool and the page fetch-and-summarize helper.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexcodex/asklang/framework"
)

// DefaultSearchEndpoint is the hosted Tavily API.
const DefaultSearchEndpoint = "https://api.tavily.com"

// DefaultMaxResults bounds how many ranked results a query returns.
const DefaultMaxResults = 5

// SearchResult is one ranked web result.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchTool implements framework.Tool against the Tavily search API.
type SearchTool struct {
	Endpoint   string
	APIKey     string
	MaxResults int
	client     *http.Client
}

// NewSearchTool builds the search tool. Empty endpoint falls back to the
// hosted API; maxResults <= 0 falls back to DefaultMaxResults.
func NewSearchTool(endpoint, apiKey string, maxResults int) *SearchTool {
	if endpoint == "" {
		endpoint = DefaultSearchEndpoint
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &SearchTool{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		MaxResults: maxResults,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements framework.Tool. The label matters: the tool-output
// collector classifies transcript messages by it.
func (t *SearchTool) Name() string { return "tavily_search" }

// Description implements framework.Tool.
func (t *SearchTool) Description() string {
	return "Search the web for up-to-date information. Returns ranked results with URLs and snippets."
}

// Parameters implements framework.Tool.
func (t *SearchTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "query", Type: "string", Description: "The search query.", Required: true},
	}
}

// Execute runs the query and renders the results both structured (Data) and
// as text (Content) so the result URLs land in the transcript for grounding.
func (t *SearchTool) Execute(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return &framework.ToolResult{Success: false, Error: "missing query"}, nil
	}
	results, err := t.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	data := make([]map[string]interface{}, 0, len(results))
	var rendered strings.Builder
	for i, r := range results {
		data = append(data, map[string]interface{}{
			"title":   r.Title,
			"url":     r.URL,
			"content": r.Snippet,
		})
		fmt.Fprintf(&rendered, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return &framework.ToolResult{
		Success: true,
		Content: rendered.String(),
		Data:    map[string]interface{}{"query": query, "results": data},
	}, nil
}

// Search posts the query to the Tavily API and returns ranked results.
func (t *SearchTool) Search(ctx context.Context, query string) ([]SearchResult, error) {
	reqBody := map[string]interface{}{
		"api_key":     t.APIKey,
		"query":       query,
		"max_results": t.MaxResults,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint+"/search", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tavily search error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tavilyResp struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tavilyResp); err != nil {
		return nil, fmt.Errorf("failed to parse tavily response: %w", err)
	}

	results := make([]SearchResult, 0, len(tavilyResp.Results))
	for _, r := range tavilyResp.Results {
		results = append(results, SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}
	return results, nil
}
