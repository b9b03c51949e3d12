package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/lexcodex/asklang/agents/search"
	"github.com/lexcodex/asklang/server"
	"github.com/lexcodex/asklang/tools"
)

// newServeCmd runs the HTTP API.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := search.Build(globalCfg)
			if err != nil {
				return err
			}
			api := &server.APIServer{
				Agent:      agent,
				Summarizer: tools.NewSummarizer(agent.Model),
				Logger:     log.Default(),
			}
			return api.ServeContext(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
