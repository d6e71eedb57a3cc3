package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"board-sync/core/hub"
	"board-sync/core/loader"
	"board-sync/core/logger"
	"board-sync/core/middleware/rayid"
	"board-sync/core/storage"
	"board-sync/feature/archive"
	"board-sync/feature/board"
	"board-sync/feature/integrity"
	"board-sync/feature/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "board-sync/docs/swagger"
)

// @title Board Sync API
// @version 1.0
// @description Ordered folder and item board with realtime broadcast.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the REST API and the realtime gateway",
	Long:  `Starts the HTTP API, the websocket gateway and, when enabled, the snapshot archiver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()
		cfg, logg := rt.cfg, rt.logger
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		snapshots := hub.New[*board.Snapshot](hub.DefaultBuffer)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// Storage is only needed by the archiver.
		var store storage.Client
		if cfg.Archive.Enabled {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
			bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := storage.EnsureBucket(bucketCtx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
				logg.Warn("Archive bucket unavailable", zap.Error(err))
			}
			cancel()
		}

		boardFeature := board.NewFeature(rt.db, snapshots, logg)
		archiveFeature := archive.NewFeature(store, cfg.Storage.Bucket, cfg.Archive, boardFeature.Snapshots(), logg)

		mgr := loader.NewManager()
		mgr.Register(boardFeature)
		mgr.Register(integrity.NewFeature(boardFeature, rt.db, logg))
		mgr.Register(archiveFeature)

		// RayID first so every later log line can carry it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			started := time.Now()
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			l.Info("Request handled",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(started)),
			)
			return err
		})

		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.AllowedOrigin,
			AllowMethods: "GET,POST",
		}))

		app.Get("/swagger/*", swagger.HandlerDefault)

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		var wg sync.WaitGroup
		errCh := make(chan error, 2)

		gateway := realtime.NewGateway(boardFeature.Dispatcher(), snapshots, cfg.Server, logg, realtime.DefaultSettings())
		wg.Add(1)
		go func() {
			defer wg.Done()
			logg.Info("Starting realtime gateway", zap.String("port", cfg.Server.RealtimePort))
			if err := gateway.ListenAndServe(ctx, ":"+cfg.Server.RealtimePort); err != nil {
				errCh <- err
			}
		}()

		if archiveFeature.IsEnabled() {
			worker := archive.NewWorker(archiveFeature.Archiver(), snapshots.Subscribe().C,
				time.Duration(cfg.Archive.IntervalSeconds)*time.Second, logg)
			wg.Add(1)
			go func() {
				defer wg.Done()
				worker.Run(ctx)
			}()
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err = <-errCh:
			logg.Error("Listener failed", zap.Error(err))
			stop()
		}

		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(5 * time.Second)
		snapshots.Close()
		wg.Wait()

		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
