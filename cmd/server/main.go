package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lecturapozos/internal/app/server/api"
	"lecturapozos/internal/app/server/config"
	"lecturapozos/internal/infrastructure/migration"
	"lecturapozos/internal/infrastructure/storage/disk"
	"lecturapozos/internal/infrastructure/storage/postgres"
	"lecturapozos/internal/utils/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.NewLevel(cfg.Env, cfg.Logger.LogLevel)

	if err := migration.NewMigration(cfg, migration.DefaultEngine, log).Up(); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := postgres.New(ctx, cfg.DB.DatabaseURI)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	blobs, err := disk.New(cfg.Upload.Dir)
	if err != nil {
		log.Error("upload dir unavailable", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(cfg, storage, blobs, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Info("server started", "address", cfg.Server.RunAddress, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}
