package cmd

import (
	"fmt"
	"os"

	"gallery-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gallery-manager",
	Short: "Gallery Manager Service",
	Long: `Gallery Manager publishes media dropped into an object-storage bucket
onto a public gallery, keeping the catalog consistent with the bucket via
bucket notifications and periodic full-scan reconciliation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// Console format with debug level gives readable ISO8601 output for a CLI.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
