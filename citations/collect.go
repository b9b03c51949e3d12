package citations

import (
	"strings"

	"github.com/lexcodex/asklang/framework"
)

// tool labels worth scanning for evidence URLs
var toolLabelHints = []string{"tavily", "search", "tool"}

// CollectToolURLs scans one run's transcript and returns the URLs surfaced by
// tool output, deduplicated in first-occurrence order across the whole
// transcript.
//
// Classification is heuristic on purpose: message shape varies by provider.
// A message with a tool-name label is scanned only when the lowercased label
// contains "tavily", "search", or "tool", which keeps unrelated tools (a
// calculator, say) from polluting the evidence set. A message with no label is
// scanned only when its content contains "http", a cheap pre-filter that skips
// regex work on ordinary conversational turns. Providers with richer tool
// metadata can swap in a stricter classifier without touching the grounding
// filter.
func CollectToolURLs(messages []framework.Message) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(content string) {
		for _, u := range ExtractURLs(content) {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}

	for _, msg := range messages {
		if msg.Name != "" {
			label := strings.ToLower(msg.Name)
			for _, hint := range toolLabelHints {
				if strings.Contains(label, hint) {
					add(msg.Content)
					break
				}
			}
			continue
		}
		if strings.Contains(msg.Content, "http") {
			add(msg.Content)
		}
	}
	return out
}
