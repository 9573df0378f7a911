package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"armory/core/config"
	"armory/core/confgen"
	"armory/core/database"
	"armory/core/journal"
	"armory/core/loader"
	"armory/core/logger"
	"armory/core/middleware/auth"
	"armory/core/middleware/rayid"
	"armory/core/runner"
	"armory/core/storage"
	"armory/core/store"
	coreworkshop "armory/core/workshop"

	"armory/feature/profiles"
	"armory/feature/run"
	"armory/feature/workshop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "armory/docs/swagger"
)

// @title Armory API
// @version 1.0
// @description API for managing Arma Reforger server profiles.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the profile manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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

		// 3. Connect the Run Journal (Optional)
		var eventLog run.EventLog
		var recorder runner.EventRecorder
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional journal database connection failed", zap.Error(err))
		} else {
			j := journal.New(db, logg)
			if err := j.Migrate(); err != nil {
				logg.Warn("Journal migration failed, journaling disabled", zap.Error(err))
			} else {
				eventLog = j
				recorder = j
				logg.Info("Run journal enabled", zap.String("driver", cfg.Database.Driver))
			}
		}

		// 4. Initialize the Config Mirror (Optional)
		var mirror *storage.Mirror
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			mirror = storage.NewMirror(client, cfg.Storage.Bucket, logg)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := mirror.EnsureBucket(ctx); err != nil {
				logg.Warn("Config mirror unavailable, mirroring disabled", zap.Error(err))
				mirror = nil
			}
			cancel()
		}

		// 5. Build the Core Services
		resolver := coreworkshop.NewResolver(coreworkshop.NewHTTPFetcher(cfg.Workshop), cfg.Workshop, logg)
		profileStore := store.New(cfg.Store, resolver, logg)
		generator := confgen.NewGenerator(profileStore, mirror, logg)
		supervisor := runner.New(cfg.Runner, profileStore, generator, runner.ExecLauncher{}, recorder, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(workshop.NewFeature(resolver, cfg.Workshop, logg))
		mgr.Register(profiles.NewFeature(profileStore, generator, supervisor, mirrorOrNil(mirror), logg))
		mgr.Register(run.NewFeature(supervisor, eventLog, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key auth is disabled; set SERVER_API_KEY to enable it")
		}

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		// Managed server processes are stopped before the HTTP listener so
		// clients watching log streams see the stop events.
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		supervisor.StopAll(ctx)
		cancel()
		_ = app.Shutdown()
	},
}

// mirrorOrNil keeps the typed-nil pointer out of the ArtifactMirror
// interface value.
func mirrorOrNil(m *storage.Mirror) profiles.ArtifactMirror {
	if m == nil {
		return nil
	}
	return m
}

func init() {
	RootCmd.AddCommand(startCmd)
}
