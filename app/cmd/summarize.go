package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/asklang/agents/search"
	"github.com/lexcodex/asklang/tools"
)

// newSummarizeCmd fetches a page and prints a short bulleted summary.
func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [url]",
		Short: "Fetch a web page and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := search.Build(globalCfg)
			if err != nil {
				return err
			}
			summary, err := tools.NewSummarizer(agent.Model).SummarizeURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
