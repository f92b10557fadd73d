package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the route tree. Probe and metrics endpoints stay open;
// the /api/v1 subtree requires the API key when one is set.
func NewRouter(h *Handlers, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if apiKey != "" {
			r.Use(requireAPIKey(apiKey))
		}

		r.Route("/monitors", func(r chi.Router) {
			r.Get("/", h.ListMonitors)
			r.Post("/", h.CreateMonitor)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", h.GetMonitor)
				r.Put("/", h.UpdateMonitor)
				r.Delete("/", h.DeleteMonitor)
				r.Get("/results", h.ListResults)
			})
		})

		r.Get("/status", h.ListStatus)
		r.Get("/status/{name}", h.GetStatus)
	})

	return r
}

// requireAPIKey rejects requests whose X-API-Key header does not match.
func requireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
