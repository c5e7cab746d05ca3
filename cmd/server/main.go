// Package main is the entry point for the media production tracker server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/media-tracker/backend/internal/api"
	"github.com/media-tracker/backend/internal/calendar"
	"github.com/media-tracker/backend/internal/storage"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	addr := flag.String("addr", ":8090", "HTTP server address")
	dataDir := flag.String("data", "/data", "Data directory for SQLite database")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting media production tracker (version: %s)...", version)

	// Initialize database
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory %q: %v", *dataDir, err)
	}
	dbPath := *dataDir + "/media-tracker.db"
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize repositories
	propertyRepo := storage.NewPropertyRepository(db)
	taskRepo := storage.NewTaskRepository(db)
	codeRepo := storage.NewSecurityCodeRepository(db)
	settingsRepo := storage.NewSettingsRepository(db)

	// Tunables live in the settings table with sensible defaults.
	ctx := context.Background()
	syncIntervalMin := settingsRepo.GetInt(ctx, storage.SettingDefaultSyncIntervalMin, 30)
	cacheTTLMin := settingsRepo.GetInt(ctx, storage.SettingFeedCacheTTLMin, 30)
	turnGapHours := settingsRepo.GetInt(ctx, storage.SettingTurnGapHours, 8)

	// Initialize calendar services
	feedCache := calendar.NewMemoryFeedCache(time.Duration(cacheTTLMin) * time.Minute)
	syncService := calendar.NewService(propertyRepo, feedCache)
	resolver := &calendar.Resolver{TurnGap: time.Duration(turnGapHours) * time.Hour}

	scheduler := calendar.NewScheduler(syncService, propertyRepo, syncIntervalMin)
	if err := scheduler.Start(ctx); err != nil {
		log.Printf("Warning: Failed to start feed scheduler: %v", err)
	}

	// Initialize HTTP router
	router := api.NewRouter(api.Services{
		DB:           db,
		Properties:   propertyRepo,
		Tasks:        taskRepo,
		Codes:        codeRepo,
		Settings:     settingsRepo,
		Sync:         syncService,
		Scheduler:    scheduler,
		Fetcher:      syncService.Fetcher(),
		Availability: resolver,
	})

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
