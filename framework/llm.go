package framework

import "context"

// LLMOptions configures language model calls. Keeping the options struct inside
// the framework avoids hard-coding OpenAI specific fields in agent code.
type LLMOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Stop        []string
	TopP        float64
}

// ToolCall encodes a function invocation requested by the LLM.
type ToolCall struct {
	ID   string                 `json:"id,omitempty"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// LLMResponse is the result of a language model invocation.
type LLMResponse struct {
	Text         string         `json:"text,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        map[string]int `json:"usage,omitempty"`
	ToolCalls    []ToolCall     `json:"tool_calls,omitempty"`
}

// Message is a single turn in a conversation. The transcript produced by an
// agent run is an append-only sequence of these; ordering is significant
// because a tool result always follows the tool call that produced it. Name
// carries the producing tool's label when Role is "tool".
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// Conversation roles. Internal logic only ever sees this closed set; caller
// supplied history is normalized at the agent boundary.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// LanguageModel provides the required LLM capabilities.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string, options *LLMOptions) (*LLMResponse, error)
	Chat(ctx context.Context, messages []Message, options *LLMOptions) (*LLMResponse, error)
	ChatWithTools(ctx context.Context, messages []Message, tools []Tool, options *LLMOptions) (*LLMResponse, error)
}
