package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"assetbot/core/audit"
	"assetbot/core/config"
	"assetbot/core/database"
	"assetbot/core/inventory"
	"assetbot/core/loader"
	"assetbot/core/logger"
	"assetbot/core/middleware/auth"
	"assetbot/core/middleware/rayid"
	"assetbot/core/storage"

	"assetbot/feature/agreement"
	"assetbot/feature/custody"
	"assetbot/feature/directory"
	"assetbot/feature/people"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the kiosk server",
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

		rec := audit.NewRecorder(logg)

		// 3. Inventory client is the one hard dependency; nothing works
		// without it.
		inv, err := inventory.NewClient(cfg.Inventory, logg)
		if err != nil {
			logg.Fatal("Failed to create inventory client", zap.Error(err))
		}

		// 4. Connect to Database (Optional)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, agreement journaling disabled", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to journal database")
		}

		// 5. Archive storage (Optional)
		var store storage.Client
		if sc, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional archive storage unavailable, summaries disabled", zap.Error(err))
		} else {
			store = sc
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		custodyFeature := custody.NewFeature(inv, cfg.Inventory, logg, rec)
		peopleFeature := people.NewFeature(inv, logg, rec)

		mgr.Register(custodyFeature)
		mgr.Register(directory.NewFeature(inv, cfg.Inventory, logg))
		mgr.Register(peopleFeature)
		mgr.Register(agreement.NewFeature(peopleFeature, custodyFeature, db, store, cfg.Storage.Bucket, logg, rec))

		// Middleware Registration
		// RayID must come first so everything downstream is traceable.
		app.Use(rayid.New())

		// Request logging with Zap + RayID.
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

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

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
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
