// Package router sets up all HTTP routes and middleware chains for the
// content server. It organizes routes into the public surface, the
// token-protected admin API and the preview endpoint.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aerogrid/internal/handlers"
	"aerogrid/internal/middleware"
	"aerogrid/internal/session"
	"aerogrid/web"
)

// apiRateLimit bounds admin API traffic per client IP.
const (
	apiRateLimit  = 100
	apiRateWindow = 15 * time.Minute
)

// Deps carries the handler groups and shared services the router wires
// together.
type Deps struct {
	Tokens  *session.Store
	Auth    *handlers.Auth
	Content *handlers.Content
	Upload  *handlers.Upload
	Editor  *handlers.Editor
	Preview *handlers.Preview
	Public  *handlers.Public

	// UploadsDir, when set, is served under /uploads/ for the local
	// storage backend. Remote backends serve media from their own URLs.
	UploadsDir string
}

// New creates and returns the configured Chi router with all
// middleware and route groups wired up. The returned rate limiter
// must be stopped on shutdown.
func New(deps Deps) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Public surface.
	r.Get("/", deps.Public.Home)
	r.Get("/content.json", deps.Content.Serve)
	r.Get("/preview/{token}", deps.Preview.Page)
	r.Get("/static/*", http.FileServer(http.FS(web.StaticFS)).ServeHTTP)

	if deps.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	// Admin API with per-IP rate limiting.
	limiter := middleware.NewRateLimiter(apiRateLimit, apiRateWindow)
	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)

		// Unauthenticated: login and the public document read.
		r.Post("/auth/verify", deps.Auth.Verify)
		r.Get("/content", deps.Content.Serve)

		// Everything else requires a verified bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireToken(deps.Tokens))

			r.Post("/auth/logout", deps.Auth.Logout)
			r.Get("/auth/totp-setup", deps.Auth.TOTPSetup)

			r.Post("/save-content", deps.Content.Save)
			r.Get("/backups", deps.Content.Backups)
			r.Post("/restore-backup", deps.Content.Restore)

			r.Post("/upload", deps.Upload.Single)
			r.Post("/upload-multiple", deps.Upload.Multiple)

			r.Route("/editor/session", func(r chi.Router) {
				r.Post("/", deps.Editor.Start)
				r.Get("/{id}", deps.Editor.State)
				r.Post("/{id}/action", deps.Editor.Action)
				r.Get("/{id}/document", deps.Editor.Document)
				r.Delete("/{id}", deps.Editor.Close)
			})

			r.Post("/preview", deps.Preview.Publish)
			r.Delete("/preview/{token}", deps.Preview.Discard)
		})
	})

	return r, limiter
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
