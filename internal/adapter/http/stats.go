package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"adpulse/internal/core/port"
)

// handleStatsOverview returns aggregated delivery totals over a specified
// period. It accepts optional `from`, `to` (ISO dates) and `campaign`
// query parameters. If no period is provided the whole history is
// aggregated. Invalid parameters result in HTTP 400. Internal errors
// produce HTTP 500. On success it writes a JSON representation of the
// totals.
func (h *Handler) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	var (
		q   = r.URL.Query()
		req port.StatsReq
		err error
	)

	if fromStr := q.Get("from"); fromStr != "" {
		req.From, err = time.Parse(time.DateOnly, fromStr)
		if err != nil {
			http.Error(w, "invalid 'from' date", http.StatusBadRequest)
			return
		}
	}
	if toStr := q.Get("to"); toStr != "" {
		req.To, err = time.Parse(time.DateOnly, toStr)
		if err != nil {
			http.Error(w, "invalid 'to' date", http.StatusBadRequest)
			return
		}
	}
	req.Campaign = q.Get("campaign")

	stats, err := h.svc.StatsOverview(r.Context(), req)
	if err != nil {
		h.logger.Error("stats error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, stats)
}
