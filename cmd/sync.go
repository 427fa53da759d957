package cmd

import (
	"lore-sync/core/lore"
	"lore-sync/core/reconcile"

	"github.com/spf13/cobra"
)

var dryRunSync bool

// publishCmd pushes local records to the remote store.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish local records to the remote store",
	Long: `Ensures each category's remote table, then creates or updates one row per local record.
New row ids are written back into the local records (source.notion_page_id).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, reconcile.ModePublish)
	},
}

// pullCmd merges remote rows into local records.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote rows into local records",
	Long:  `Merges every remote row into the local records. Local-only fields are kept; rows without a local record become new skeleton records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, reconcile.ModePull)
	},
}

func runSync(cmd *cobra.Command, mode reconcile.Mode) error {
	rt, err := bootstrap(dryRunSync)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	cats, err := categoriesFlag(cmd, rt)
	if err != nil {
		return err
	}
	return rt.runModes(cmd.Context(), cats, mode)
}

// categoriesFlag resolves --categories, falling back to the configured categories.
func categoriesFlag(cmd *cobra.Command, rt *runtime) ([]lore.Category, error) {
	names, _ := cmd.Flags().GetStringSlice("categories")
	if len(names) == 0 {
		return rt.cfg.Categories(), nil
	}
	return lore.ParseCategories(names)
}

func init() {
	for _, c := range []*cobra.Command{publishCmd, pullCmd} {
		c.Flags().BoolVar(&dryRunSync, "dry-run", false, "Count changes without writing anything")
		RootCmd.AddCommand(c)
	}
}
