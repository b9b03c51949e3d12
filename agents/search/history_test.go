package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexcodex/asklang/framework"
)

func TestNormalizeHistoryShapes(t *testing.T) {
	history := []interface{}{
		framework.Message{Role: "assistant", Content: "hello"},
		[2]string{"user", "hi"},
		[]string{"assistant", "how can I help?"},
		map[string]string{"role": "user", "content": "from a record"},
		map[string]interface{}{"role": "assistant", "content": "typed record"},
		map[string]interface{}{"content": "role missing"},
		42,
	}

	got := NormalizeHistory(history)
	want := []framework.Message{
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "how can I help?"},
		{Role: "user", Content: "from a record"},
		{Role: "assistant", Content: "typed record"},
		{Role: "user", Content: "role missing"},
		{Role: "user", Content: "42"},
	}
	assert.Equal(t, want, got)
}

func TestNormalizeHistoryEmpty(t *testing.T) {
	assert.Empty(t, NormalizeHistory(nil))
	assert.Empty(t, NormalizeHistory([]interface{}{}))
}

func TestInjectPreamblePrepends(t *testing.T) {
	messages := []framework.Message{{Role: "user", Content: "hi"}}
	out := InjectPreamble(messages, "instruction text")
	assert.Len(t, out, 2)
	assert.Equal(t, framework.RoleSystem, out[0].Role)
	assert.Equal(t, "instruction text", out[0].Content)
}

func TestInjectPreambleIdempotent(t *testing.T) {
	preamble := MakePreamble(ModeFacts)
	messages := []framework.Message{
		{Role: framework.RoleSystem, Content: preamble},
		{Role: "user", Content: "hi"},
	}
	out := InjectPreamble(messages, preamble)
	assert.Equal(t, messages, out)
}

func TestInjectPreambleReplacesForeignSystemMessage(t *testing.T) {
	// a system message with different content still gets the preamble prepended
	messages := []framework.Message{
		{Role: framework.RoleSystem, Content: "some other instruction"},
		{Role: "user", Content: "hi"},
	}
	out := InjectPreamble(messages, "current preamble")
	assert.Len(t, out, 3)
	assert.Equal(t, "current preamble", out[0].Content)
}
