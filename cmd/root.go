package cmd

import (
	"fmt"
	"os"

	"lore-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lore-sync",
	Short: "Lore reconciliation service",
	Long: `lore-sync keeps structured lore records (characters, creatures, realms, magic, plots)
in step with a remote tabular store such as Notion, in both directions, on demand or on a timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with development timestamps reads better in a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringSlice("categories", nil, "Categories to process (default: lore.categories or all)")
}
