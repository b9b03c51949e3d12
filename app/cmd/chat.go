package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lexcodex/asklang/agents/search"
	"github.com/lexcodex/asklang/framework"
	"github.com/lexcodex/asklang/tools"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	sourcesStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// newChatCmd runs a line-based REPL. History lives for the life of the
// process and is owned here, not by the agent: each turn passes the full
// history in and appends the exchange on the way out.
func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := search.Build(globalCfg)
			if err != nil {
				return err
			}
			summarizer := tools.NewSummarizer(agent.Model)
			return runChat(cmd.Context(), agent, summarizer, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runChat(ctx context.Context, agent *search.Agent, summarizer *tools.Summarizer, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "asklang chat. /mode facts|summary|links, /sum <url>, /recap, /clear, /quit to exit.")

	var history []interface{}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("you> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			history = nil
			fmt.Fprintln(out, sourcesStyle.Render("history cleared"))
			continue
		case line == "/recap":
			if len(history) == 0 {
				fmt.Fprintln(out, warnStyle.Render("nothing to recap yet"))
				continue
			}
			result, err := agent.Invoke(ctx, []interface{}{
				map[string]string{"role": framework.RoleUser, "content": recapPrompt(history)},
			})
			if err != nil {
				fmt.Fprintln(out, errStyle.Render("recap failed: "+err.Error()))
				continue
			}
			fmt.Fprintln(out, answerStyle.Render(result.FinalText))
			continue
		case strings.HasPrefix(line, "/mode"):
			mode := strings.TrimSpace(strings.TrimPrefix(line, "/mode"))
			if mode == "" {
				fmt.Fprintln(out, warnStyle.Render("usage: /mode facts|summary|links"))
				continue
			}
			agent.Config.AnswerMode = mode
			fmt.Fprintln(out, sourcesStyle.Render("answer mode set to "+mode))
			continue
		case strings.HasPrefix(line, "/sum"):
			url := strings.TrimSpace(strings.TrimPrefix(line, "/sum"))
			if url == "" {
				fmt.Fprintln(out, warnStyle.Render("usage: /sum <url>"))
				continue
			}
			summary, err := summarizer.SummarizeURL(ctx, url)
			if err != nil {
				fmt.Fprintln(out, errStyle.Render("summarize failed: "+err.Error()))
				continue
			}
			fmt.Fprintln(out, answerStyle.Render(summary))
			continue
		}

		history = append(history, [2]string{framework.RoleUser, line})
		result, err := agent.Invoke(ctx, history)
		if err != nil {
			// the failed turn is reported without corrupting history;
			// drop the unanswered question so a retry starts clean
			history = history[:len(history)-1]
			fmt.Fprintln(out, errStyle.Render("turn failed: "+err.Error()))
			continue
		}
		history = append(history, framework.Message{Role: framework.RoleAssistant, Content: result.FinalText})
		fmt.Fprintln(out, renderAnswer(result.FinalText, search.GroundedSources(result), result.Truncated))
	}
}

// recapPrompt renders the running conversation into a single summarization
// request. The recap turn is side-band: its exchange is shown but never
// appended back into the history.
func recapPrompt(history []interface{}) string {
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, "Summarize this conversation:")
	for _, msg := range search.NormalizeHistory(history) {
		lines = append(lines, msg.Role+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

// renderAnswer formats the answer plus its grounded Sources block.
func renderAnswer(answer string, sources []string, truncated bool) string {
	var b strings.Builder
	b.WriteString(answerStyle.Render(answer))
	if truncated {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("(answer truncated: tool round-trip budget reached)"))
	}
	if len(sources) > 0 {
		b.WriteString("\n")
		b.WriteString(sourcesStyle.Render("Sources:"))
		for _, u := range sources {
			b.WriteString("\n")
			b.WriteString(sourcesStyle.Render("  - " + u))
		}
	}
	return b.String()
}
