package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"comprice/server/config"
	"comprice/server/internal/api"
	"comprice/server/internal/database"
	"comprice/server/internal/processor"
	"comprice/server/internal/queue"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Adjustment table overrides are optional; a malformed file is fatal
	if _, statErr := os.Stat("config/adjustments.json"); statErr == nil {
		if err := config.LoadAdjustmentTable(); err != nil {
			logger.WithError(err).Fatal("Failed to load adjustment table")
		}
		logger.Info("Loaded adjustment table overrides")
	}

	// Get the current working directory
	currentDir, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Fatal("Failed to get current directory")
	}

	// Construct database path relative to the server directory
	dbPath := filepath.Join(currentDir, "database", "comprice.db")
	logger.Infof("Using database at: %s", dbPath)

	// Initialize database
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Open the gorm handle used by the ingest path
	gormDB, err := database.OpenGorm(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open gorm connection")
	}

	// Start the ingest queue and its batch processors
	listingQueue := queue.NewListingQueue(100, logger)
	listingQueue.Start()

	batchProcessor := processor.NewBatchProcessor(gormDB, listingQueue, processor.DefaultOptions(), logger)
	batchProcessor.Start()
	defer batchProcessor.Stop()

	// Initialize router
	router := gin.Default()
	router.Use(cors.Default())

	api.SetupRoutes(router, db, cfg, listingQueue, logger)

	// Use port 5260
	const port = "5260"
	logger.Infof("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
