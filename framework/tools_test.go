package framework

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name string
}

func (t fakeTool) Name() string                { return t.name }
func (t fakeTool) Description() string         { return "fake" }
func (t fakeTool) Parameters() []ToolParameter { return nil }
func (t fakeTool) Execute(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
	return &ToolResult{Success: true}, nil
}

func TestToolRegistryRegisterAndGet(t *testing.T) {
	registry := NewToolRegistry()
	require.NoError(t, registry.Register(fakeTool{name: "search"}))

	tool, ok := registry.Get("search")
	assert.True(t, ok)
	assert.Equal(t, "search", tool.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
	assert.Len(t, registry.All(), 1)
}

func TestToolRegistryRejectsDuplicates(t *testing.T) {
	registry := NewToolRegistry()
	require.NoError(t, registry.Register(fakeTool{name: "search"}))
	assert.Error(t, registry.Register(fakeTool{name: "search"}))
}

func TestMultiplexTelemetryFansOut(t *testing.T) {
	var a, b []Event
	multi := MultiplexTelemetry{Sinks: []Telemetry{
		sinkFunc(func(e Event) { a = append(a, e) }),
		sinkFunc(func(e Event) { b = append(b, e) }),
	}}
	multi.Emit(Event{Type: EventToolCall})
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

type sinkFunc func(Event)

func (f sinkFunc) Emit(e Event) { f(e) }

func TestConfigErrorNamesVariable(t *testing.T) {
	err := MissingVar("TAVILY_API_KEY")
	assert.Contains(t, err.Error(), "TAVILY_API_KEY")
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
