// Package main is the entry point for the catalog admin server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"catalogadmin/internal/api"
	"catalogadmin/internal/cache"
	"catalogadmin/internal/catalog"
	"catalogadmin/internal/config"
	"catalogadmin/internal/database"
	"catalogadmin/internal/handlers"
	"catalogadmin/internal/logger"
	"catalogadmin/internal/middleware"
	"catalogadmin/internal/mutation"
	"catalogadmin/internal/router"
	"catalogadmin/internal/session"
	"catalogadmin/internal/storage"
	"catalogadmin/internal/store"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log, logFile, err := logger.New(logger.Config{
		Env:        cfg.Env,
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to open log file")
	}
	defer logFile.Close()

	log.Info().Str("env", cfg.Env).Str("addr", cfg.Addr()).Str("catalog_api", cfg.CatalogAPIURL).Msg("configuration loaded")

	// Saga journal: PostgreSQL when configured, in memory otherwise.
	var journal mutation.Journal
	if cfg.HasDatabase() {
		db, err := database.Connect(cfg.DSN(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		if err := database.Migrate(db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		journal = store.NewSagaLogStore(db, log)
	} else {
		log.Warn().Msg("database not configured, saga journal kept in memory")
		journal = mutation.NewMemoryJournal()
	}

	// Sessions: Valkey when configured, in memory otherwise.
	secureCookies := !cfg.IsDev()
	var backend session.Backend
	if cfg.HasValkey() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to valkey")
		}
		defer valkeyClient.Close()
		backend = session.NewValkeyBackend(valkeyClient)
	} else {
		log.Warn().Msg("valkey not configured, sessions kept in memory")
		backend = session.NewMemoryBackend()
	}
	sessionStore := session.NewStore(backend, secureCookies)

	client := api.New(cfg.CatalogAPIURL, cfg.CatalogAPITimeout, log)

	// Product attachments go to S3 when configured, otherwise through the
	// catalog API's upload endpoint.
	var uploader catalog.Uploader = client
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize S3 storage")
	}
	if storageClient != nil {
		uploader = storageClient
		log.Info().Str("endpoint", cfg.S3Endpoint).Str("bucket", cfg.S3Bucket).Msg("s3 storage connected")
	}

	svc := catalog.New(catalog.Config{
		API:      api.NewCatalog(client),
		Uploader: uploader,
		Journal:  journal,
		Log:      log,
	})

	// Warm the caches. A failing collection is retried by its screen.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 2*cfg.CatalogAPITimeout)
	if err := svc.Init(initCtx); err != nil {
		log.Warn().Err(err).Msg("initial catalog load incomplete")
	}
	cancelInit()

	var limiter *middleware.RateLimiter
	if cfg.MutationRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.MutationRateLimit, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(router.Options{
		Log:      log,
		Sessions: sessionStore,
		Limiter:  limiter,
		Secure:   secureCookies,
	}, handlers.NewAdmin(svc, sessionStore, cfg.ItemsPerPage))

	// WriteTimeout must cover a product creation: two uploads plus the
	// create call and its refresh.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 4*cfg.CatalogAPITimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	svc.Clear()

	log.Info().Msg("server stopped gracefully")
}
