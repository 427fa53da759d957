package cmd

import (
	"fmt"

	"lore-sync/core/lore"
	"lore-sync/core/normalize"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var normalizeOpts normalize.Options

// normalizeCmd converts raw documents into canonical records.
var normalizeCmd = &cobra.Command{
	Use:   "normalize <category>",
	Short: "Normalize raw lore documents into canonical records",
	Long: `Reads raw JSON documents under --root, cleans text, applies synonyms and writes canonical records.

Examples:
  # One combined characters.normalized.json under characters/formatted
  lore-sync normalize characters --root raw/characters

  # One file per record plus _index.json
  lore-sync normalize creatures --root raw/creatures --split --index

  # Per-region folders and bundles
  lore-sync normalize realms --root raw/realms --by-region --region-bundles`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := lore.ParseCategory(args[0])
		if err != nil {
			return err
		}
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		opts := normalizeOpts
		opts.Category = c
		res, err := rt.normalizer.Run(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", c, err)
		}
		for _, w := range res.Warnings {
			rt.logger.Warn("Skipped entry", zap.String("category", string(c)), zap.String("detail", w))
		}
		rt.logger.Info("Normalized",
			zap.String("category", string(c)),
			zap.Int("count", res.Count),
			zap.Strings("files", res.Files),
			zap.Int("warnings", len(res.Warnings)),
		)
		return nil
	},
}

func init() {
	f := normalizeCmd.Flags()
	f.StringVar(&normalizeOpts.Root, "root", "", "Raw file or directory of raw *.json documents")
	f.BoolVar(&normalizeOpts.Split, "split", false, "Write one file per record")
	f.BoolVar(&normalizeOpts.Index, "index", false, "Write _index.json")
	f.BoolVar(&normalizeOpts.ByRegion, "by-region", false, "Write one file per record under <out>/<region>/")
	f.BoolVar(&normalizeOpts.RegionBundles, "region-bundles", false, "Write one document per region under <out>/regions/")
	f.StringVar(&normalizeOpts.OutDir, "out-dir", "", "Output directory (default <category>/formatted)")
	f.StringVar(&normalizeOpts.SynonymsPath, "synonyms", "", "Synonyms file overriding lore.synonyms_path")
	_ = normalizeCmd.MarkFlagRequired("root")
	RootCmd.AddCommand(normalizeCmd)
}
