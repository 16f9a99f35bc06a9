package cmd

import (
	"fmt"
	"os"

	"library-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "library-manager",
	Short: "Library Manager Service",
	Long: `Library Manager keeps an anime and manga library consistent when a
series moves from one source to another. It carries episode progress,
categories, tracking and custom covers over to the new entry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives readable ISO8601 timestamps on a terminal.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
