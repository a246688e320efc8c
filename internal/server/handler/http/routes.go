// Package http provides HTTP routing and middleware configuration
// for the clipboard service.
package http

import (
	"net/http"

	"github.com/cmdc/cmdc/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// clipboard API. It applies request logging and bearer-token session
// resolution, and mounts the clipboard and auth endpoints under /api.
// The root-level GET /{clipboardID} route mirrors the shareable link
// format, so the generated URL is fetchable directly.
//
// Routes:
//
//	POST   /api/login                      → authHandler.Login
//	POST   /api/logout                     → authHandler.Logout
//	POST   /api/clipboards                 → clipboardHandler.Create
//	GET    /api/clipboards                 → clipboardHandler.List
//	DELETE /api/clipboards                 → clipboardHandler.DeleteBatch
//	GET    /api/clipboards/{clipboardID}   → clipboardHandler.View
//	DELETE /api/clipboards/{clipboardID}   → clipboardHandler.Delete
//	GET    /health                         → liveness probe
//	GET    /{clipboardID}                  → clipboardHandler.View
func NewRouter(
	clipboardHandler *ClipboardHandler,
	authHandler *AuthHandler,
	auth middleware.Authenticator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Resolve bearer session tokens to the current user
	r.Use(middleware.TokenAuth(auth, logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Route("/clipboards", func(r chi.Router) {
			r.Post("/", clipboardHandler.Create)
			r.Get("/", clipboardHandler.List)
			r.Delete("/", clipboardHandler.DeleteBatch)
			r.Get("/{clipboardID}", clipboardHandler.View)
			r.Delete("/{clipboardID}", clipboardHandler.Delete)
		})
	})

	// Shareable link surface: GET /<clipboardID>
	r.Get("/{clipboardID}", clipboardHandler.View)

	return r
}
