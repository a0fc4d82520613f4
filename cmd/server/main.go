package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/weboff/api"
	dbfs "github.com/garnizeh/weboff/db"
	"github.com/garnizeh/weboff/internal/assets"
	"github.com/garnizeh/weboff/internal/config"
	"github.com/garnizeh/weboff/internal/db"
	"github.com/garnizeh/weboff/internal/mailer"
	"github.com/garnizeh/weboff/pkg/strapi"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	strapi.SetLogger(logger)
	mailer.SetLogger(logger)

	log.Printf("Starting weboff server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
	}

	cms, err := strapi.NewDefaultClient(cfg.Strapi)
	if err != nil {
		log.Fatalf("Failed to create CMS client: %v", err)
	}
	if cfg.Strapi.APIKey == "" {
		logger.Warn("STRAPI_API_KEY is not set; project endpoints will fail until it is")
	}

	deps := api.Deps{DB: database, Projects: cms}

	sender, err := mailer.NewSMTPSender(cfg.SMTP)
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		logger.Warn("SMTP relay not configured; contact form is disabled")
	case err != nil:
		log.Fatalf("Failed to create mailer: %v", err)
	default:
		deps.Mailer = sender
	}

	switch cfg.Assets.Source {
	case "s3":
		bl, err := assets.NewBucketLister(cfg.Assets.S3)
		if err != nil {
			log.Fatalf("Failed to create asset bucket client: %v", err)
		}
		deps.Logos = bl
	default:
		deps.Logos = assets.NewDirLister(cfg.Assets.TechsDir)
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, deps)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := cms.Close(); err != nil {
		log.Printf("Error closing CMS client: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
