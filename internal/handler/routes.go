package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Stewz00/go-account-service/internal/metrics"
	"github.com/Stewz00/go-account-service/internal/middleware"
)

// NewRouter mounts the account endpoints, health check and metrics.
func NewRouter(h *AccountHandler, logger *slog.Logger, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger, m))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/exists", h.Exists)
		r.Put("/password", h.UpdatePassword)
	})

	return r
}
