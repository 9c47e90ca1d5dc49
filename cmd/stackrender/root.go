package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
	jsonLogs   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "stackrender",
		Short:         "stackrender expands STACK question templates into final markup",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to stackrender.yaml")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.jsonLogs, "json-logs", false, "Emit logs as JSON instead of console output")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newBatchCmd(flags))
	cmd.AddCommand(newDiffCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
