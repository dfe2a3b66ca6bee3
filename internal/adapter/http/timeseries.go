package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleTimeSeries returns a gap-filled daily delivery series for one
// campaign. Days inside the campaign's actual data span that have no
// rows come back zero-valued; days outside the span are omitted so a
// chart never draws a misleading flat line. An unknown campaign simply
// returns an empty series.
func (h *Handler) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "missing campaign name", http.StatusBadRequest)
		return
	}

	series, err := h.svc.CampaignTimeSeries(r.Context(), name)
	if err != nil {
		h.logger.Error("timeseries error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, series)
}
