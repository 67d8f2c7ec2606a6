package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"melodex/src/features/config"
	"melodex/src/features/hosting"
	"melodex/src/features/library"
	"melodex/src/features/logging"
	"melodex/src/features/metrics"
	"melodex/src/infra"
	"melodex/src/infra/artwork"
	"melodex/src/infra/database"
	"melodex/src/infra/files"
	"melodex/src/infra/tag"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the database library
	db, err := database.NewSqliteLibrary(cfgManager.Get().Database.Path, database.Options{
		CaseSensitiveLike: cfgManager.Get().Database.CaseSensitiveLike,
	})
	if err != nil {
		log.Fatalf("failed to create library: %v", err)
	}
	defer db.Close()

	// Create the cover cleaner and start its retry loop
	cleaner := files.NewCleaner()
	cleaner.Start(time.Duration(cfgManager.Get().Cleaner.RetryIntervalSeconds) * time.Second)
	defer cleaner.Stop()

	// Create the library service
	tagReader := tag.NewReader()
	artworkService := artwork.NewService(cfgManager)
	m3uParser := infra.NewM3UParser(db)
	libraryService := library.NewService(db, cleaner, tagReader, artworkService, m3uParser)

	// Create the metrics service
	metricsService := metrics.NewService(db)

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, libraryService, metricsService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
