package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexcodex/asklang/agents/search"
)

// newAskCmd answers a single question and exits.
func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the grounded answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := search.Build(globalCfg)
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			result, err := agent.Invoke(cmd.Context(), []interface{}{
				[2]string{"user", question},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAnswer(result.FinalText, search.GroundedSources(result), result.Truncated))
			return nil
		},
	}
}
