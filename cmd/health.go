package cmd

import (
	"errors"

	"lore-sync/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// healthCmd checks the remote store and the local layout.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check remote reachability, local layout and schema drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()
		ctx := cmd.Context()
		cats, err := categoriesFlag(cmd, rt)
		if err != nil {
			return err
		}

		remoteRep := checks.CheckRemote(ctx, rt.transport, rt.pingTimeout())
		if remoteRep.Reachable {
			rt.logger.Info("Remote store reachable", zap.Int64("latency_ms", remoteRep.LatencyMs))
		} else {
			rt.logger.Error("Remote store unreachable", zap.String("error", remoteRep.Error))
		}

		missing, err := checks.CheckStructure(ctx, rt.store, cats)
		switch {
		case err != nil:
			rt.logger.Error("Structure check failed", zap.Error(err))
		case len(missing) > 0 && fixFlag:
			if err := checks.FixStructure(ctx, rt.store, rt.logger, missing); err != nil {
				return err
			}
		case len(missing) > 0:
			rt.logger.Warn("Missing locations (use --fix to create)", zap.Strings("missing", missing))
		default:
			rt.logger.Info("Structure OK")
		}

		for c, rep := range checks.CheckRecords(ctx, rt.store, cats) {
			rt.logger.Info("Records",
				zap.String("category", string(c)),
				zap.Int("count", rep.Count),
				zap.Int("stamped", rep.Stamped),
				zap.Int("unstamped", len(rep.Unstamped)),
				zap.String("status", rep.Status),
			)
		}

		if remoteRep.Reachable {
			schema := checks.CheckSchema(ctx, rt.engine.Schema(), cats)
			for c, tbl := range schema.Categories {
				rt.logger.Info("Schema",
					zap.String("category", string(c)),
					zap.String("status", tbl.Status),
					zap.Strings("missing", tbl.Missing),
					zap.Int("conflicts", len(tbl.Conflicts)),
				)
			}
		}

		if !remoteRep.Reachable {
			return errors.New("remote store unreachable")
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing local locations")
	RootCmd.AddCommand(healthCmd)
}
