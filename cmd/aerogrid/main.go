// Package main is the entry point for the Aerogrid content server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"aerogrid/internal/cache"
	"aerogrid/internal/config"
	"aerogrid/internal/editor"
	"aerogrid/internal/gateway"
	"aerogrid/internal/handlers"
	"aerogrid/internal/preview"
	"aerogrid/internal/renderer"
	"aerogrid/internal/router"
	"aerogrid/internal/session"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger for the whole process: verbose text handler in
	// development, info-level JSON in production.
	var logger *slog.Logger
	if cfg.IsDev() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.StoreBackend,
	)

	// Parse the public origin for absolute media URLs, if configured.
	var baseURL *url.URL
	if cfg.BaseURL != "" {
		baseURL, err = url.Parse(cfg.BaseURL)
		if err != nil {
			slog.Error("invalid APP_BASE_URL", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (page cache, tokens, sessions, drafts).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Select the persistence backend.
	var store gateway.Gateway
	var uploadsDir string
	switch cfg.StoreBackend {
	case config.BackendLocal:
		local, err := gateway.NewLocal(cfg.DataDir)
		if err != nil {
			slog.Error("failed to initialize local store", "error", err)
			os.Exit(1)
		}
		store = local
		uploadsDir = filepath.Join(cfg.DataDir, "uploads")
	case config.BackendGitHub:
		store = gateway.NewGitHub(cfg.GitHubRepo, cfg.GitHubBranch, cfg.GitHubToken)
		slog.Info("github store configured", "repo", cfg.GitHubRepo, "branch", cfg.GitHubBranch)
	case config.BackendS3:
		s3store, err := gateway.NewS3(gateway.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to initialize s3 store", "error", err)
			os.Exit(1)
		}
		store = s3store
		slog.Info("s3 store configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}

	// Admin credentials and bearer token store.
	authenticator, err := session.NewAuthenticator(session.AuthConfig{
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		TOTPSecret:   cfg.AdminTOTPSecret,
	})
	if err != nil {
		slog.Error("failed to initialize authenticator", "error", err)
		os.Exit(1)
	}
	tokens := session.NewStore(valkeyClient, cfg.SessionTTL)

	// Public page renderer from the embedded template.
	rend, err := renderer.New()
	if err != nil {
		slog.Error("failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	// Valkey-backed stores: editing sessions, preview drafts, page cache.
	editorSessions := editor.NewSessionStore(valkeyClient)
	drafts := preview.NewStore(valkeyClient, preview.DefaultTTL)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Create handler groups with their dependencies.
	r, limiter := router.New(router.Deps{
		Tokens:     tokens,
		Auth:       handlers.NewAuth(authenticator, tokens),
		Content:    handlers.NewContent(store, pageCache),
		Upload:     handlers.NewUpload(store),
		Editor:     handlers.NewEditor(editorSessions, store),
		Preview:    handlers.NewPreview(drafts, rend, baseURL),
		Public:     handlers.NewPublic(store, rend, pageCache, baseURL),
		UploadsDir: uploadsDir,
	})
	defer limiter.Stop()

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate uploads to the remote backends.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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
