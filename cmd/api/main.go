package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/koinonia-app/koinonia-api/internal/auth"
	"github.com/koinonia-app/koinonia-api/internal/config"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/server"
	"github.com/koinonia-app/koinonia-api/internal/storage/object"
	"github.com/koinonia-app/koinonia-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logLevel)
	log := logger.Get()

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

	if err := postgres.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessions, err := auth.NewSessionManager(cfg)
	if err != nil {
		log.Error("Failed to configure sessions", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	uploader, err := object.NewMinioUploader(ctx, cfg)
	cancel()
	if err != nil {
		log.Error("Failed to connect to object storage", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, postgres.NewStore(db), sessions, uploader)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped cleanly")
}
