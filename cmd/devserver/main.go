package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"rateview/internal/config"
	"rateview/internal/db"
	"rateview/internal/devserver"
	"rateview/internal/logger"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.InitLogger()
	log.Info().Msg("Dev backend starting")

	var store devserver.Store
	if cfg.DBUrl != "" {
		database, err := db.InitDB(cfg.DBUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer database.Close()
		if err := db.RunMigrations(database); err != nil {
			log.Fatal().Err(err).Msg("Migrations failed")
		}
		store = db.NewSQLStore(database, log)
		log.Info().Msg("Using MySQL store")
	} else {
		memory := devserver.NewMemoryStore()
		if err := devserver.SeedDemo(memory, log); err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
		store = memory
		log.Info().Msg("Using in-memory store with demo data")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: devserver.NewHandler(store, cfg.JWTSecret, log),
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Dev backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Dev backend stopped")
}
