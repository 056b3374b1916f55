package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-manager/core/config"
	"gallery-manager/core/database"
	"gallery-manager/core/loader"
	"gallery-manager/core/logger"
	"gallery-manager/core/middleware/rayid"
	"gallery-manager/core/storage"
	"gallery-manager/feature/gallery"
	"gallery-manager/feature/gallery/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "gallery-manager/docs/swagger"
)

// @title Gallery Manager API
// @version 1.0
// @description API for the published-media gallery.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gallery manager server",
	Long:  `Starts the HTTP server, the gallery feature, and the background reconciliation scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the catalog database. Unlike a cache, the catalog is
		// the source of truth for what the gallery serves, so this is fatal.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to catalog database", zap.Error(err))
		}
		logg.Info("Connected to catalog database")

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		galleryFeature := gallery.NewFeature(store, cfg.Storage.Bucket, logg, db, cfg.Gallery, cfg.Server.ApiKey)
		mgr.Register(galleryFeature)

		// Middleware Registration
		// RayID first, so every log line of a request is correlated.
		app.Use(rayid.New())

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

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 7. Load Features (each feature applies its own route protection)
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Background reconciliation scheduler
		schedCtx, cancelSched := context.WithCancel(context.Background())
		sched := scheduler.New(
			galleryFeature.Runner(),
			time.Duration(cfg.Gallery.ScanIntervalSeconds)*time.Second,
			logg,
		)
		sched.Start(schedCtx)

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancelSched()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
