// Package router sets up the HTTP routes and middleware chains of the
// catalog admin API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"catalogadmin/internal/handlers"
	"catalogadmin/internal/middleware"
	"catalogadmin/internal/session"
)

// Options configures the middleware stack.
type Options struct {
	Log      zerolog.Logger
	Sessions *session.Store
	// Limiter throttles mutations per session. Nil disables throttling.
	Limiter *middleware.RateLimiter
	// Secure marks the session and CSRF cookies Secure.
	Secure bool
}

// New creates the chi router with all middleware and routes wired up.
func New(opts Options, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(opts.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(opts.Sessions))
		r.Use(middleware.CSRF(opts.Secure))
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Mutations)
		}
		admin.Routes(r)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
