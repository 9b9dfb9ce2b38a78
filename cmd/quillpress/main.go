// Package main is the entry point for the quillpress blog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quillpress/internal/cache"
	"quillpress/internal/config"
	"quillpress/internal/content"
	"quillpress/internal/database"
	"quillpress/internal/handlers"
	"quillpress/internal/media"
	"quillpress/internal/middleware"
	"quillpress/internal/router"
	"quillpress/internal/store"
)

// valkeyPrefix namespaces every cache key this service writes.
const valkeyPrefix = "quillpress:"

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text with debug output in development, JSON otherwise.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"cache", cfg.CacheBackend,
		"cache_ttl", cfg.CacheTTL,
	)

	// Connect to PostgreSQL, waiting up to 30s for it to accept connections.
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	db, err := database.Connect(startCtx, cfg.DSN(), database.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(startCtx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Ensure the default category and blog settings exist (no-op afterwards).
	if err := database.Seed(db, cfg.PostsPerPage); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	settingStore := store.NewSiteSettingStore(db)
	mediaStore := store.NewMediaStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// Read cache backend: shared Valkey, or per-process memory.
	var backend cache.Backend
	switch cfg.CacheBackend {
	case config.CacheValkey:
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		backend = cache.NewValkeyBackend(valkeyClient, valkeyPrefix)
	default:
		backend = cache.NewMemoryBackend(cfg.CacheTTL)
		slog.Warn("using in-process cache, entries are not shared between instances")
	}

	opts := []cache.Option{cache.WithKeyTable(cache.DefaultKeyTable(cfg.CacheTTL))}
	if cfg.CacheSingleflight {
		opts = append(opts, cache.WithSingleflight())
	}
	aside := cache.NewAside(backend, opts...)

	// Responsive image rewriting for post bodies.
	rewriter := media.NewRewriter(mediaStore, media.URLBuilder{
		Endpoint:  cfg.MediaEndpoint,
		Container: cfg.MediaContainer,
	})

	blog := content.NewService(postStore, categoryStore, tagStore, settingStore, aside, rewriter)
	blog.SetInvalidationLog(cacheLogStore)

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set, admin API disabled")
	}

	// Admin endpoints: a per-client budget over a sliding window.
	limiter := middleware.NewRateLimiter(cfg.AdminRateLimit, cfg.AdminRateWindow,
		middleware.WithClientKey(middleware.ClientIP(cfg.TrustProxy)))
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(cfg.AdminToken, limiter, handlers.NewAdmin(blog, cacheLogStore), handlers.NewPublic(blog))

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
