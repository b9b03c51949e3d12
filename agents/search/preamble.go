package search

// AnswerMode controls the formatting directive appended to the preamble.
type AnswerMode string

const (
	ModeFacts   AnswerMode = "facts"
	ModeSummary AnswerMode = "summary"
	ModeLinks   AnswerMode = "links"
)

// basePreamble conditions every invocation; callers add a mode hint via
// MakePreamble.
const basePreamble = "You are a helpful research assistant. " +
	"When a question likely requires up-to-date information or verification, " +
	"use the web search tool first. Synthesize findings and, when you used search, " +
	"append a short 'Sources:' section with 1-3 direct URLs. Keep answers concise."

var modeHints = map[AnswerMode]string{
	ModeFacts:   "Write a short, factual answer followed by Sources.",
	ModeSummary: "Write a concise paragraph-style summary followed by Sources.",
	ModeLinks:   "Do not elaborate; return a one-sentence answer and a bulleted Sources list.",
}

// MakePreamble composes the system preamble with an answer-mode hint.
// Unrecognized modes fall back to facts. Pure and recomputed every call, so a
// mode change takes effect on the very next invocation.
func MakePreamble(mode AnswerMode) string {
	hint, ok := modeHints[mode]
	if !ok {
		hint = modeHints[ModeFacts]
	}
	return basePreamble + " " + hint
}
