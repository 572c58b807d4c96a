// Package httpapi is the thin, read-only HTTP surface demonstrating the
// engine's external contract: query/compare/ratio/summary/multiMetric/
// matrix/screen as JSON endpoints, routed and middleware-wrapped the way
// the teacher's internal/api/router.go wires chi — request ID, real IP,
// logging, recovery, CORS, then the engine's own error-taxonomy mapping.
// It does not render, chart, or parse natural language; it exists to
// prove the contract in SPEC_FULL.md §6, not to be a product API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/cruxfin/edgarfacts/internal/engine"
	"github.com/cruxfin/edgarfacts/internal/httpapi/middleware"
)

// NewRouter builds the chi router for the demonstration API.
func NewRouter(ctx context.Context, eng *engine.Engine, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimitWithContext(ctx, 10))
	r.Use(chimw.Timeout(15 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	h := &Handlers{Engine: eng}
	r.Route("/api", func(r chi.Router) {
		r.Get("/query", h.Query)
		r.Get("/compare", h.Compare)
		r.Get("/ratio", h.Ratio)
		r.Get("/summary", h.Summary)
		r.Get("/multiMetric", h.MultiMetric)
		r.Get("/matrix", h.Matrix)
		r.Get("/screen", h.Screen)
	})

	return r
}
