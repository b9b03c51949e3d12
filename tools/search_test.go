package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTavilyStub(t *testing.T, results ...map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEmpty(t, payload["api_key"])
		assert.NotEmpty(t, payload["query"])
		out := map[string]interface{}{"results": results}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
}

func TestSearchToolExecute(t *testing.T) {
	server := newTavilyStub(t,
		map[string]string{"title": "Go 1.25", "url": "https://go.dev/blog/go1.25", "content": "release notes"},
		map[string]string{"title": "Spec", "url": "https://go.dev/ref/spec", "content": "language spec"},
	)
	defer server.Close()

	tool := NewSearchTool(server.URL, "tvly-test", 5)
	assert.Equal(t, "tavily_search", tool.Name())

	res, err := tool.Execute(context.Background(), map[string]interface{}{"query": "go 1.25"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Content, "https://go.dev/blog/go1.25")
	assert.Contains(t, res.Content, "https://go.dev/ref/spec")

	results, ok := res.Data["results"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, results, 2)
	assert.Equal(t, "https://go.dev/blog/go1.25", results[0]["url"])
}

func TestSearchToolMissingQuery(t *testing.T) {
	tool := NewSearchTool("http://unused", "tvly-test", 5)
	res, err := tool.Execute(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "missing query", res.Error)
}

func TestSearchToolSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	tool := NewSearchTool(server.URL, "bad-key", 5)
	_, err := tool.Search(context.Background(), "anything")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchToolDefaults(t *testing.T) {
	tool := NewSearchTool("", "key", 0)
	assert.Equal(t, DefaultSearchEndpoint, tool.Endpoint)
	assert.Equal(t, DefaultMaxResults, tool.MaxResults)
}
