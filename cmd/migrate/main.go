package main

import (
	"fmt"
	"os"

	"github.com/koinonia-app/koinonia-api/internal/config"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize("info")
	log := logger.Migration()

	log.Info("Starting migration process")

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	log.Info("Running migrations...")
	if err := postgres.AutoMigrate(db); err != nil {
		log.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("Migrations completed successfully")

	fmt.Println("Migration process completed!")
}
