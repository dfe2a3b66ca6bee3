package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adpulse/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP. It holds an AnalyticsUseCase to execute business logic and a
// logger for structured logging. Routes are registered on a chi.Router
// for convenient method handling.
type Handler struct {
	svc    port.AnalyticsUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured. It accepts a
// usecase implementation and a logger. The returned Handler registers
// handlers for each endpoint on a new chi.Router.
func NewHandler(svc port.AnalyticsUseCase, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/delivery", h.handleDeliveryImport)
		r.Post("/contracts", h.handleContractImport)
		r.Post("/anomalies/run", h.handleAnomalyRun)
		r.Get("/anomalies", h.handleAnomalyList)
		r.Patch("/anomalies/{id}/ignore", h.handleAnomalyIgnore)
		r.Get("/campaigns/pacing", h.handlePacing)
		r.Get("/campaigns/health", h.handleHealth)
		r.Get("/campaigns/{name}/timeseries", h.handleTimeSeries)
		r.Get("/stats/overview", h.handleStatsOverview)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writeJSON encodes v as the response body. Encoding failures are logged;
// by then the status line is already written so nothing else can be done.
func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
