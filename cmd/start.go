package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"library-manager/core/config"
	"library-manager/core/database"
	"library-manager/core/loader"
	"library-manager/core/logger"
	"library-manager/core/metrics"
	"library-manager/core/middleware/auth"
	"library-manager/core/middleware/rayid"
	"library-manager/core/storage"

	"library-manager/feature/covers"
	"library-manager/feature/library"
	"library-manager/feature/migration"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "library-manager/docs/swagger"
)

// @title Library Manager API
// @version 1.0
// @description API for migrating library entries between sources.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the library manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			return err
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The database is optional; without it only the cover routes are served.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Library database connection failed", zap.Error(err))
		} else if err := library.Migrate(conn); err != nil {
			logg.Warn("Library schema is not usable", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to library database", zap.String("driver", cfg.Database.Driver))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Cover bucket is not available", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}

		var migrationSvc *migration.Service
		if db != nil {
			migrationSvc, _, err = migration.Setup(ctx, migration.Options{
				DB:      db,
				Storage: store,
				Bucket:  cfg.Storage.Bucket,
				Config:  cfg.Migration,
				Logger:  logg,
			})
			if err != nil {
				return fmt.Errorf("failed to set up migration: %w", err)
			}
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(library.NewFeature(db, logg))
		mgr.Register(covers.NewFeature(store, cfg.Storage.Bucket, logg))
		mgr.Register(migration.NewFeature(migrationSvc))

		// RayID first so every later log line carries it.
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

		// Public routes.
		app.Get("/swagger/*", swagger.HandlerDefault)
		if cfg.Server.Metrics {
			metrics.Register()
			app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
		}

		warnIfUnauthenticated(logg, cfg.Server.ApiKey)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// warnIfUnauthenticated reports an empty API key, which leaves every feature route open.
func warnIfUnauthenticated(l *zap.Logger, apiKey string) {
	if apiKey == "" {
		l.Warn("API key is empty, every route is served without authentication")
	}
}
