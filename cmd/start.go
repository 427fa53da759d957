package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lore-sync/core/loader"
	"lore-sync/core/logger"
	"lore-sync/core/lore"
	"lore-sync/core/middleware/auth"
	"lore-sync/core/middleware/rayid"
	"lore-sync/core/scheduler"

	"lore-sync/feature/integrity"
	lorefeature "lore-sync/feature/lore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "lore-sync/docs/swagger"
)

// @title lore-sync API
// @version 1.0
// @description API for reconciling lore records with a remote tabular store.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the lore-sync server and scheduler",
	Long:  `Starts the HTTP server, loads all enabled features and runs the sync scheduler until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration, logger and backends
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		cfg := rt.cfg

		rt.scheduler.OnPostCycle(func(_ context.Context, report *scheduler.CycleReport) {
			rt.logCycle(report)
		})

		// 2. Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
			ReadTimeout:           cfg.Server.ReadTimeout(),
		})

		// 3. Feature Loader
		mgr := loader.NewManager()
		mgr.Register(lorefeature.NewFeature(
			lorefeature.NewService(rt.orchestrator, rt.normalizer, rt.scheduler, logg),
			cfg.Server.BatchSecret,
		))
		mgr.Register(integrity.NewFeature(rt.transport, rt.store, rt.engine.Schema(), cfg.Categories(), rt.pingTimeout(), logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with the ray id attached
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth. Liveness probes stay public.
		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health"
			},
		}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		// 5. Scheduler
		watchDir := ""
		if cfg.Lore.Backend == lore.BackendFS {
			watchDir = cfg.Lore.Root
		}
		if err := rt.scheduler.Start(context.Background(), watchDir); err != nil {
			return err
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()), zap.Strings("features", mgr.Loaded()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		if err := rt.scheduler.Stop(); err != nil {
			logg.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
