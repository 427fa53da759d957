package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ensureSchemaCmd adds missing mapped properties to every remote table.
var ensureSchemaCmd = &cobra.Command{
	Use:   "ensure-schema",
	Short: "Add missing mapped properties to the remote tables",
	Long:  `Adds every mapped property missing from each category's remote table. Properties are never deleted or retyped; type conflicts are reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		cats, err := categoriesFlag(cmd, rt)
		if err != nil {
			return err
		}

		failed := 0
		for _, c := range cats {
			_, report, err := rt.engine.EnsureSchema(cmd.Context(), c)
			if err != nil {
				failed++
				rt.logger.Error("Ensure schema failed", zap.String("category", string(c)), zap.Error(err))
				continue
			}
			rt.logger.Info("Schema ensured",
				zap.String("category", string(c)),
				zap.String("table", report.TableID),
				zap.String("title_property", report.TitleProperty),
				zap.Strings("added", report.Added),
				zap.Int("existing", len(report.Existing)),
				zap.Strings("excluded", report.Excluded),
			)
			for _, conflict := range report.Conflicts {
				rt.logger.Warn("Schema conflict",
					zap.String("category", string(c)),
					zap.String("property", conflict.Property),
					zap.String("want", string(conflict.Want)),
					zap.String("have", string(conflict.Have)),
				)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d categories could not be ensured", failed)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ensureSchemaCmd)
}
