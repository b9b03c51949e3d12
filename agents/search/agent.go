// Package search implements the conversational search agent: a reasoning and
// tool-invocation loop over a language model and a web search tool, plus the
// citation grounding applied to its answers.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexcodex/asklang/citations"
	"github.com/lexcodex/asklang/framework"
)

// DefaultMaxRoundTrips bounds the reasoning/tool-execution loop. Termination
// otherwise relies on the model choosing to stop requesting tools; exceeding
// the cap is non-fatal truncation, not an error.
const DefaultMaxRoundTrips = 8

// DefaultModel is used when neither configuration nor environment names one.
const DefaultModel = "gpt-4o-mini"

// truncationPlaceholder stands in when the budget runs out before the model
// ever produced answer text.
const truncationPlaceholder = "(no final answer: tool round-trip budget exhausted)"

// Agent drives one reasoning episode to completion per Invoke call. Separate
// invocations share no mutable state; each owns its transcript, so independent
// sessions can run concurrent agents without coordination.
type Agent struct {
	Model  framework.LanguageModel
	Tools  *framework.ToolRegistry
	Config *framework.Config

	model         string
	maxRoundTrips int
}

// TraceEntry is one best-effort record of tool activity during a run.
type TraceEntry struct {
	Role      string               `json:"role"`
	ToolName  string               `json:"tool_name,omitempty"`
	ToolCalls []framework.ToolCall `json:"tool_calls,omitempty"`
	Content   string               `json:"content,omitempty"`
}

// InvokeResult is the output of one invocation. Transcript is the full
// append-only message sequence including intermediate tool calls and results.
type InvokeResult struct {
	ID         string              `json:"id"`
	FinalText  string              `json:"final_text"`
	ToolTrace  []TraceEntry        `json:"tool_trace"`
	Transcript []framework.Message `json:"transcript"`
	Truncated  bool                `json:"truncated,omitempty"`
}

// New wires an agent from its collaborators. Config may be nil; defaults are
// applied for the model name and round-trip cap.
func New(model framework.LanguageModel, tools *framework.ToolRegistry, cfg *framework.Config) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("search agent missing language model")
	}
	if tools == nil {
		tools = framework.NewToolRegistry()
	}
	if cfg == nil {
		cfg = &framework.Config{}
	}
	a := &Agent{Model: model, Tools: tools, Config: cfg}
	a.model = cfg.Model
	if a.model == "" {
		a.model = DefaultModel
	}
	a.maxRoundTrips = cfg.MaxRoundTrips
	if a.maxRoundTrips <= 0 {
		a.maxRoundTrips = DefaultMaxRoundTrips
	}
	return a, nil
}

// Invoke runs the agent over the supplied history and returns the final
// answer with its transcript. History accepts messages, (role, content)
// pairs, or role/content records; see NormalizeHistory. The current preamble
// is injected idempotently, so feeding a previous call's transcript back in
// does not stack system messages.
//
// Provider failures propagate unwrapped of any retry: retrying a tool call
// has cost and quota implications the loop must not hide from the caller.
// Cancellation and deadlines arrive through ctx.
func (a *Agent) Invoke(ctx context.Context, history []interface{}) (*InvokeResult, error) {
	return a.InvokeWithMode(ctx, history, "")
}

// InvokeWithMode is Invoke with a per-call answer-mode override. An empty
// mode falls back to the configured one. The override is never written back
// to the shared config, so concurrent callers with different modes do not
// race on it.
func (a *Agent) InvokeWithMode(ctx context.Context, history []interface{}, mode string) (*InvokeResult, error) {
	if mode == "" {
		mode = a.Config.AnswerMode
	}
	preamble := MakePreamble(AnswerMode(mode))
	messages := InjectPreamble(NormalizeHistory(history), preamble)

	runID := uuid.NewString()
	a.emit(framework.EventAgentStart, runID, "", map[string]interface{}{"messages": len(messages)})

	options := &framework.LLMOptions{Model: a.model, Temperature: 0}
	truncated := false
	lastText := ""

	for trip := 0; ; trip++ {
		if trip >= a.maxRoundTrips {
			truncated = true
			a.emit(framework.EventTruncation, runID, "round-trip budget exhausted", map[string]interface{}{"trips": trip})
			break
		}
		a.emit(framework.EventModelCall, runID, "", map[string]interface{}{"trip": trip})
		resp, err := a.Model.ChatWithTools(ctx, messages, a.Tools.All(), options)
		if err != nil {
			return nil, err
		}
		messages = append(messages, framework.Message{
			Role:      framework.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		if resp.Text != "" {
			lastText = resp.Text
		}
		if len(resp.ToolCalls) == 0 {
			lastText = resp.Text
			break
		}
		// Execute sequentially in the requested order so the transcript
		// stays deterministic.
		for _, call := range resp.ToolCalls {
			a.emit(framework.EventToolCall, runID, "", map[string]interface{}{"tool": call.Name, "args": call.Args})
			tool, ok := a.Tools.Get(call.Name)
			if !ok {
				return nil, fmt.Errorf("unknown tool %s", call.Name)
			}
			res, err := tool.Execute(ctx, call.Args)
			if err != nil {
				return nil, err
			}
			messages = append(messages, toolMessage(call, res))
			a.emit(framework.EventToolResult, runID, "", map[string]interface{}{"tool": call.Name, "success": res.Success})
		}
	}

	finalText := lastText
	if finalText == "" && truncated {
		finalText = truncationPlaceholder
	}

	result := &InvokeResult{
		ID:         runID,
		FinalText:  finalText,
		ToolTrace:  buildToolTrace(messages),
		Transcript: messages,
		Truncated:  truncated,
	}
	a.emit(framework.EventAgentFinish, runID, "", map[string]interface{}{"truncated": truncated, "messages": len(messages)})
	return result, nil
}

// GroundedSources reduces the answer's cited URLs to those backed by this
// run's tool output, with the grounding filter's documented fallbacks.
func GroundedSources(result *InvokeResult) []string {
	if result == nil {
		return nil
	}
	allowed := citations.CollectToolURLs(result.Transcript)
	return citations.GroundCitations(result.FinalText, allowed)
}

func (a *Agent) emit(typ framework.EventType, runID, msg string, meta map[string]interface{}) {
	if a.Config == nil || a.Config.Telemetry == nil {
		return
	}
	a.Config.Telemetry.Emit(framework.Event{
		Type:      typ,
		RunID:     runID,
		Message:   msg,
		Timestamp: time.Now().UTC(),
		Metadata:  meta,
	})
}

// toolMessage renders a tool result as a transcript message. The structured
// payload is kept as JSON so downstream URL harvesting sees the result URLs.
func toolMessage(call framework.ToolCall, res *framework.ToolResult) framework.Message {
	content := res.Content
	if content == "" {
		payload := map[string]interface{}{"success": res.Success}
		if len(res.Data) > 0 {
			payload["data"] = res.Data
		}
		if res.Error != "" {
			payload["error"] = res.Error
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			content = fmt.Sprintf("success=%t error=%s", res.Success, res.Error)
		} else {
			content = string(encoded)
		}
	}
	return framework.Message{
		Role:       framework.RoleTool,
		Name:       call.Name,
		Content:    content,
		ToolCallID: call.ID,
	}
}

func buildToolTrace(messages []framework.Message) []TraceEntry {
	var trace []TraceEntry
	for _, msg := range messages {
		if len(msg.ToolCalls) > 0 {
			trace = append(trace, TraceEntry{Role: framework.RoleAssistant, ToolCalls: msg.ToolCalls})
		}
		if msg.Role == framework.RoleTool {
			trace = append(trace, TraceEntry{Role: framework.RoleTool, ToolName: msg.Name, Content: msg.Content})
		}
	}
	return trace
}
