package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root sentinel command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "sentinel, a concurrent HTTP uptime monitor",
		Long:          "Sentinel probes HTTP endpoints on a fixed cadence, tracks per-monitor statistics, and alerts on status transitions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	root.AddCommand(
		newStartCmd(),
		newCheckCmd(),
		newVersionCmd(),
	)

	return root
}
