package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shelfwise/internal/adapters/http/middleware"
	"shelfwise/internal/adapters/http/routes"
	"shelfwise/internal/adapters/persistence"
	"shelfwise/internal/config"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.AppMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	store, err := persistence.NewStore(cfg)
	if err != nil {
		zlog.Fatal("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer store.Close()

	library, err := services.NewLibrary(context.Background(), store, zlog, services.Options{
		MaxLoansPerMember: cfg.MaxLoansPerMember,
	})
	if err != nil {
		zlog.Fatal("failed to load library state", "error", err)
	}

	// Optional periodic snapshots on top of the save-after-mutation default
	if cfg.SnapshotCron != "" {
		snapshots, err := services.NewSnapshotService(library, cfg.SnapshotCron, zlog)
		if err != nil {
			zlog.Fatal("invalid SNAPSHOT_CRON", "spec", cfg.SnapshotCron, "error", err)
		}
		snapshots.Start()
		defer snapshots.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "shelfwise API",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, library)

	go gracefulShutdown(app, zlog)

	zlog.Info("server starting", "port", cfg.Port, "mode", cfg.AppMode, "storage", cfg.Storage.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server failed", "error", err)
	}
}

// gracefulShutdown stops the server on SIGINT/SIGTERM
func gracefulShutdown(app *fiber.App, zlog *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Error("error during shutdown", "error", err)
	}
}
