package search

import (
	"fmt"
	"strings"

	"github.com/lexcodex/asklang/framework"
)

// NormalizeHistory coerces caller-supplied history into framework messages.
//
// Supported shapes:
//   - framework.Message (passed through)
//   - [2]string / []string pairs of (role, content)
//   - map[string]string or map[string]interface{} with role/content keys
//
// Anything else becomes a user-role message holding its string form. This
// keeps the loop safe to call with temporary record-based histories without
// the caller converting first.
func NormalizeHistory(history []interface{}) []framework.Message {
	out := make([]framework.Message, 0, len(history))
	for _, item := range history {
		switch v := item.(type) {
		case framework.Message:
			out = append(out, v)
		case [2]string:
			out = append(out, framework.Message{Role: v[0], Content: v[1]})
		case []string:
			if len(v) == 2 {
				out = append(out, framework.Message{Role: v[0], Content: v[1]})
			} else {
				out = append(out, framework.Message{Role: framework.RoleUser, Content: strings.Join(v, " ")})
			}
		case map[string]string:
			out = append(out, framework.Message{Role: valueOr(v["role"], framework.RoleUser), Content: v["content"]})
		case map[string]interface{}:
			role := framework.RoleUser
			if r, ok := v["role"]; ok {
				role = fmt.Sprint(r)
			}
			content := ""
			if c, ok := v["content"]; ok {
				content = fmt.Sprint(c)
			}
			out = append(out, framework.Message{Role: role, Content: content})
		default:
			out = append(out, framework.Message{Role: framework.RoleUser, Content: fmt.Sprint(item)})
		}
	}
	return out
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// InjectPreamble ensures the first message is the preamble as a system
// message. Injection is idempotent: when the history already starts with a
// system message containing this exact preamble text, it is returned
// unchanged, so re-invoking with an already-prefixed history never stacks a
// second instruction.
func InjectPreamble(messages []framework.Message, preamble string) []framework.Message {
	if len(messages) > 0 && messages[0].Role == framework.RoleSystem && strings.Contains(messages[0].Content, preamble) {
		return messages
	}
	out := make([]framework.Message, 0, len(messages)+1)
	out = append(out, framework.Message{Role: framework.RoleSystem, Content: preamble})
	return append(out, messages...)
}
