// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jpush reads JSON input incrementally and reports its structure.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("jpush")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "jpush",
		Short: "Incremental JSON parsing tool",
		Long: `Read JSON from a file, standard input, or a WebSocket in chunks,
and report the parse events or the values they describe.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newBuildCmd())
	return rootCmd
}
