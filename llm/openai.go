// Package llm provides the OpenAI-compatible chat client backing the agent.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lexcodex/asklang/framework"
)

// DefaultEndpoint targets the hosted OpenAI API; point it anywhere that
// speaks the /v1/chat/completions protocol (proxies, local gateways, tests).
const DefaultEndpoint = "https://api.openai.com"

// Client implements framework.LanguageModel over the chat completions API.
type Client struct {
	Endpoint string
	Model    string
	APIKey   string
	Debug    bool
	client   *http.Client
}

type toolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type toolDef struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type apiToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type apiMessage struct {
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	ToolCalls []apiToolCall `json:"tool_calls"`
}

type apiResponse struct {
	Choices []struct {
		Message      apiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]int `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient builds a chat client. Empty endpoint falls back to the hosted API.
func NewClient(endpoint, model, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		Model:    model,
		APIKey:   apiKey,
		client: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

// Generate implements single prompt completion as a one-message chat.
func (c *Client) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return c.Chat(ctx, []framework.Message{{Role: framework.RoleUser, Content: prompt}}, options)
}

// Chat implements chat style conversation.
func (c *Client) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	payload := map[string]interface{}{
		"model":    c.model(options),
		"messages": convertMessages(messages),
	}
	c.applyOptions(payload, options)
	return c.doRequest(ctx, "/v1/chat/completions", payload)
}

// ChatWithTools attaches tool schemas so the model can request invocations.
func (c *Client) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Tool, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	payload := map[string]interface{}{
		"model":    c.model(options),
		"messages": convertMessages(messages),
	}
	if len(tools) > 0 {
		payload["tools"] = convertTools(tools)
	}
	c.applyOptions(payload, options)
	return c.doRequest(ctx, "/v1/chat/completions", payload)
}

// SetDebugLogging enables or disables verbose logging for requests/responses.
func (c *Client) SetDebugLogging(enabled bool) {
	c.Debug = enabled
}

func (c *Client) getHTTPClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	c.client = &http.Client{Timeout: 60 * time.Second}
	return c.client
}

func (c *Client) model(options *framework.LLMOptions) string {
	if options != nil && options.Model != "" {
		return options.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return "gpt-4o-mini"
}

func (c *Client) applyOptions(payload map[string]interface{}, options *framework.LLMOptions) {
	// Temperature is always sent: grounding behavior should be reproducible,
	// so the agent pins it at zero rather than leaning on provider defaults.
	temperature := 0.0
	if options != nil {
		temperature = options.Temperature
	}
	payload["temperature"] = temperature
	if options == nil {
		return
	}
	if options.MaxTokens != 0 {
		payload["max_tokens"] = options.MaxTokens
	}
	if options.Stop != nil {
		payload["stop"] = options.Stop
	}
	if options.TopP != 0 {
		payload["top_p"] = options.TopP
	}
}

func (c *Client) doRequest(ctx context.Context, path string, payload interface{}) (*framework.LLMResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	c.logPayload(path, body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(msg))
		if detail != "" {
			return nil, fmt.Errorf("openai error: %s: %s", resp.Status, detail)
		}
		return nil, fmt.Errorf("openai error: %s", resp.Status)
	}
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logResponse(path, responseBody)
	return decodeLLMResponse(bytes.NewReader(responseBody))
}

func convertMessages(messages []framework.Message) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		m := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}
		if msg.Name != "" {
			m["name"] = msg.Name
		}
		if msg.ToolCallID != "" {
			m["tool_call_id"] = msg.ToolCallID
		}
		if len(msg.ToolCalls) > 0 {
			calls := make([]map[string]interface{}, 0, len(msg.ToolCalls))
			for _, call := range msg.ToolCalls {
				args, err := json.Marshal(call.Args)
				if err != nil || call.Args == nil {
					args = []byte("{}")
				}
				entry := map[string]interface{}{
					"type": "function",
					"function": map[string]interface{}{
						"name":      call.Name,
						"arguments": string(args),
					},
				}
				if call.ID != "" {
					entry["id"] = call.ID
				}
				calls = append(calls, entry)
			}
			m["tool_calls"] = calls
		}
		out = append(out, m)
	}
	return out
}

func convertTools(tools []framework.Tool) []toolDef {
	res := make([]toolDef, 0, len(tools))
	for _, tool := range tools {
		props := make(map[string]interface{})
		var required []string
		for _, param := range tool.Parameters() {
			prop := map[string]interface{}{
				"type":        param.Type,
				"description": param.Description,
			}
			if param.Default != nil {
				prop["default"] = param.Default
			}
			props[param.Name] = prop
			if param.Required {
				required = append(required, param.Name)
			}
		}
		parameters := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(required) > 0 {
			parameters["required"] = required
		}
		res = append(res, toolDef{
			Type: "function",
			Function: toolFunction{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  parameters,
			},
		})
	}
	return res
}

func decodeLLMResponse(body io.Reader) (*framework.LLMResponse, error) {
	var raw apiResponse
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Error != nil {
		return nil, fmt.Errorf("openai error: %s", raw.Error.Message)
	}
	if len(raw.Choices) == 0 {
		return nil, fmt.Errorf("openai response contained no choices")
	}
	choice := raw.Choices[0]
	resp := &framework.LLMResponse{
		Text:         choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage:        raw.Usage,
	}
	resp.ToolCalls = parseToolCalls(choice.Message.ToolCalls)
	return resp, nil
}

func parseToolCalls(calls []apiToolCall) []framework.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	results := make([]framework.ToolCall, 0, len(calls))
	for _, call := range calls {
		results = append(results, framework.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: parseArguments(call.Function.Arguments),
		})
	}
	return results
}

func parseArguments(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		var nested map[string]interface{}
		if err := json.Unmarshal([]byte(str), &nested); err == nil {
			return nested
		}
		return map[string]interface{}{"value": str}
	}
	return map[string]interface{}{"_raw": string(raw)}
}

func (c *Client) logPayload(path string, payload []byte) {
	if !c.Debug {
		return
	}
	c.logf("request %s payload: %s", path, truncate(string(payload), 2048))
}

func (c *Client) logResponse(path string, resp []byte) {
	if !c.Debug {
		return
	}
	c.logf("response %s payload: %s", path, truncate(string(resp), 2048))
}

func (c *Client) logf(format string, args ...interface{}) {
	if !c.Debug {
		return
	}
	log.Printf("[openai] "+format, args...)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
