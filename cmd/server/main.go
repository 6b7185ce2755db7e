package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/circleone/member-directory/internal/config"
	"github.com/circleone/member-directory/internal/database"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/media"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	// Load .env when present; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	driver, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.MigrateDatabase(ctx, database.GetDB(), driver, cfg.SQLMigrations); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if *migrateOnly {
		logger.Info(ctx, "migrations applied", "driver", driver)
		return
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	// Login providers
	var providers []oauth.Provider
	if cfg.GoogleConfigured() {
		google, err := oauth.NewGoogle(ctx, cfg.GoogleClientID, cfg.GoogleSecret, cfg.OAuthRedirectURL("google"))
		if err != nil {
			logger.Error(ctx, "google login disabled", "error", err)
		} else {
			providers = append(providers, google)
		}
	} else {
		logger.Warn(ctx, "google login not configured")
	}

	// Image host; uploads are refused while it is nil
	var images media.Host
	if cfg.MediaConfigured() {
		host, err := media.NewS3Host(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.MediaPublicURL,
		})
		if err != nil {
			logger.Error(ctx, "image uploads disabled", "error", err)
		} else {
			images = host
		}
	}

	r := server.NewRouter(server.Options{
		Config:    cfg,
		DB:        database.GetDB(),
		Log:       logger,
		Store:     store,
		Images:    images,
		Providers: oauth.NewRegistry(providers...),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", srv.Addr, "app_url", cfg.AppURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
	logger.Info(shutdownCtx, "server stopped")
}
