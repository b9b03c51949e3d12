package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexcodex/asklang/framework"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type stubTool struct {
	name string
}

func (t stubTool) Name() string        { return t.name }
func (t stubTool) Description() string { return "stub tool" }
func (t stubTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "query", Type: "string", Required: true},
	}
}
func (t stubTool) Execute(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
	return &framework.ToolResult{Success: true}, nil
}

func chatBody(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":"` + content + `"},"finish_reason":"stop"}]}`
}

func TestClientChat(t *testing.T) {
	client := NewClient("http://fake", "chat-model", "sk-test")
	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) *http.Response {
			assert.Equal(t, "/v1/chat/completions", req.URL.Path)
			assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
			var payload map[string]interface{}
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "chat-model", payload["model"])
			assert.Equal(t, 0.0, payload["temperature"])
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(chatBody("ok"))),
				Header:     make(http.Header),
			}
		}),
	}

	resp, err := client.Chat(context.Background(), []framework.Message{{Role: "user", Content: "ping"}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestClientGenerateWrapsPrompt(t *testing.T) {
	client := NewClient("http://fake", "m", "sk")
	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) *http.Response {
			var payload struct {
				Messages []map[string]interface{} `json:"messages"`
			}
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			if assert.Len(t, payload.Messages, 1) {
				assert.Equal(t, "user", payload.Messages[0]["role"])
				assert.Equal(t, "hello", payload.Messages[0]["content"])
			}
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(chatBody("response"))),
				Header:     make(http.Header),
			}
		}),
	}

	resp, err := client.Generate(context.Background(), "hello", &framework.LLMOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "response", resp.Text)
}

func TestClientChatWithToolsParsesToolCalls(t *testing.T) {
	client := NewClient("http://fake", "model", "sk")
	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) *http.Response {
			var payload map[string]interface{}
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.NotNil(t, payload["tools"], "tool schemas should be attached")
			return &http.Response{
				StatusCode: 200,
				Body: io.NopCloser(strings.NewReader(`{
					"choices":[{
						"message": {
							"role":"assistant",
							"content":"",
							"tool_calls": [{
								"id":"call-1",
								"type":"function",
								"function":{"name":"tavily_search","arguments":"{\"query\":\"go releases\"}"}
							}]
						},
						"finish_reason":"tool_calls"
					}]
				}`)),
				Header: make(http.Header),
			}
		}),
	}

	tools := []framework.Tool{stubTool{name: "tavily_search"}}
	messages := []framework.Message{{Role: "user", Content: "what changed in go?"}}
	resp, err := client.ChatWithTools(context.Background(), messages, tools, &framework.LLMOptions{})
	assert.NoError(t, err)
	if assert.Len(t, resp.ToolCalls, 1) {
		assert.Equal(t, "tavily_search", resp.ToolCalls[0].Name)
		assert.Equal(t, "call-1", resp.ToolCalls[0].ID)
		assert.Equal(t, map[string]interface{}{"query": "go releases"}, resp.ToolCalls[0].Args)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	client := NewClient("http://fake", "model", "sk")
	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: 429,
				Status:     "429 Too Many Requests",
				Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"rate limited"}}`)),
				Header:     make(http.Header),
			}
		}),
	}

	_, err := client.Chat(context.Background(), []framework.Message{{Role: "user", Content: "x"}}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestParseArgumentsFallbacks(t *testing.T) {
	assert.Equal(t, map[string]interface{}{}, parseArguments(nil))
	assert.Equal(t, map[string]interface{}{"q": "x"}, parseArguments(json.RawMessage(`{"q":"x"}`)))
	assert.Equal(t, map[string]interface{}{"q": "x"}, parseArguments(json.RawMessage(`"{\"q\":\"x\"}"`)))
	assert.Equal(t, map[string]interface{}{"value": "plain"}, parseArguments(json.RawMessage(`"plain"`)))
}
