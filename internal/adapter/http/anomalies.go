package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adpulse/internal/core/analytics"
	"adpulse/internal/core/domain"
	"adpulse/internal/core/port"
)

// anomalyRunRequest carries caller-supplied detector thresholds. Omitted
// or zero fields fall back to the configured defaults.
type anomalyRunRequest struct {
	ImpressionThreshold      float64 `json:"impression_threshold"`
	TransactionDropThreshold float64 `json:"transaction_drop_threshold"`
	ZeroTransactionDays      int     `json:"zero_transaction_days"`
	CTRThreshold             float64 `json:"ctr_threshold"`
}

// anomalyView is the JSON shape of one anomaly. Details keeps the variant
// payload produced by the matching detector.
type anomalyView struct {
	ID             int64                 `json:"id,omitempty"`
	CampaignName   string                `json:"campaign_name"`
	AnomalyType    domain.AnomalyType    `json:"anomaly_type"`
	DateDetected   string                `json:"date_detected"`
	Severity       domain.Severity       `json:"severity"`
	Details        domain.AnomalyDetails `json:"details"`
	IsIgnored      bool                  `json:"is_ignored"`
	CustomDuration *int                  `json:"custom_duration,omitempty"`
}

// handleAnomalyRun triggers a detection run over the full delivery
// history. The optional JSON body overrides detector thresholds. An empty
// body runs with configured defaults. On success it returns the run id
// and the detected anomalies. Malformed JSON produces HTTP 400; internal
// errors produce HTTP 500.
func (h *Handler) handleAnomalyRun(w http.ResponseWriter, r *http.Request) {
	var req anomalyRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}

	opts := analytics.DetectorOptions{
		ImpressionThresholdPct:      req.ImpressionThreshold,
		TransactionDropThresholdPct: req.TransactionDropThreshold,
		ZeroTransactionDays:         req.ZeroTransactionDays,
		CTRThresholdPct:             req.CTRThreshold,
	}

	result, err := h.svc.RunAnomalyDetection(r.Context(), opts)
	if err != nil {
		h.logger.Error("anomaly run error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]anomalyView, 0, len(result.Anomalies))
	for _, a := range result.Anomalies {
		views = append(views, toAnomalyView(a))
	}
	h.writeJSON(w, map[string]any{
		"run_id":    result.RunID,
		"stored":    result.Stored,
		"anomalies": views,
	})
}

// handleAnomalyList returns stored anomalies, most recent first. Pass
// ?include_ignored=true to include anomalies an operator has dismissed.
func (h *Handler) handleAnomalyList(w http.ResponseWriter, r *http.Request) {
	includeIgnored := r.URL.Query().Get("include_ignored") == "true"

	anomalies, err := h.svc.ListAnomalies(r.Context(), includeIgnored)
	if err != nil {
		h.logger.Error("anomaly list error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]anomalyView, 0, len(anomalies))
	for _, a := range anomalies {
		views = append(views, toAnomalyView(a))
	}
	h.writeJSON(w, views)
}

// handleAnomalyIgnore toggles the ignored flag on a stored anomaly. The
// body is {"ignored": bool}; an empty body means ignore. Unknown ids
// produce HTTP 404.
func (h *Handler) handleAnomalyIgnore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid anomaly id", http.StatusBadRequest)
		return
	}

	body := struct {
		Ignored bool `json:"ignored"`
	}{Ignored: true}
	if r.Body != nil && r.ContentLength != 0 {
		if err = json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}

	if err = h.svc.IgnoreAnomaly(r.Context(), id, body.Ignored); err != nil {
		if errors.Is(err, port.ErrAnomalyNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("anomaly ignore error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toAnomalyView(a domain.CampaignAnomaly) anomalyView {
	return anomalyView{
		ID:             a.ID,
		CampaignName:   a.CampaignName,
		AnomalyType:    a.Type,
		DateDetected:   a.DateDetected.Format(time.DateOnly),
		Severity:       a.Severity,
		Details:        a.Details,
		IsIgnored:      a.IsIgnored,
		CustomDuration: a.CustomDuration,
	}
}
