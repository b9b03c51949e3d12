// Package cmd wires the asklang command line interface.
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/asklang/framework"
)

var (
	cfgFile    string
	flagModel  string
	flagMode   string
	flagDebug  bool
	globalCfg  *framework.Config
	cfgCleanup func()
)

// NewRootCmd wires the cobra tree. main executes it with a signal-aware
// context.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "asklang",
		Short:         "Conversational search agent with grounded citations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				cfgFile = DefaultConfigPath()
			}
			cfg, err := loadConfig(cfgFile)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if flagModel != "" {
				cfg.Model = flagModel
			}
			if flagMode != "" {
				cfg.AnswerMode = flagMode
			}
			if flagDebug {
				cfg.DebugLLM = true
			}
			cfgCleanup, err = attachTelemetry(cfg)
			if err != nil {
				return err
			}
			globalCfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cfgCleanup != nil {
				cfgCleanup()
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to asklang config file")
	root.PersistentFlags().StringVar(&flagModel, "model", "", "Chat model override")
	root.PersistentFlags().StringVar(&flagMode, "mode", "", "Answer mode (facts, summary, links)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug-llm", false, "Log LLM request/response payloads")

	root.AddCommand(
		newAskCmd(),
		newChatCmd(),
		newServeCmd(),
		newSummarizeCmd(),
		newConfigCmd(),
	)
	return root
}

// attachTelemetry wires the configured sinks and returns a cleanup func.
func attachTelemetry(cfg *framework.Config) (func(), error) {
	if cfg.TelemetryLog == "" {
		return nil, nil
	}
	sink, err := framework.NewJSONFileTelemetry(cfg.TelemetryLog)
	if err != nil {
		return nil, err
	}
	cfg.Telemetry = sink
	return func() { _ = sink.Close() }, nil
}
