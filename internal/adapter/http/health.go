package httpadapter

import (
	"log/slog"
	"net/http"

	"adpulse/internal/core/domain"
)

// healthView is the JSON shape of one campaign's health score.
type healthView struct {
	CampaignName string `json:"campaign_name"`

	Spend         float64 `json:"spend"`
	Revenue       float64 `json:"revenue"`
	Impressions   float64 `json:"impressions"`
	Clicks        float64 `json:"clicks"`
	ROAS          float64 `json:"roas"`
	CTRPct        float64 `json:"ctr_pct"`
	PacePct       float64 `json:"pace_pct"`
	CompletionPct float64 `json:"completion_pct"`

	ROASScore           float64 `json:"roas_score"`
	DeliveryPacingScore float64 `json:"delivery_pacing_score"`
	BurnRateScore       float64 `json:"burn_rate_score"`
	CTRScore            float64 `json:"ctr_score"`
	OverspendScore      float64 `json:"overspend_score"`

	HealthScore float64           `json:"health_score"`
	Tier        domain.HealthTier `json:"tier"`
}

// handleHealth returns composite health scores for every campaign with
// both delivery and contract data, worst first.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CampaignHealth(r.Context())
	if err != nil {
		h.logger.Error("health error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]healthView, 0, len(result.Campaigns))
	for _, c := range result.Campaigns {
		views = append(views, healthView{
			CampaignName:        c.CampaignName,
			Spend:               c.Spend,
			Revenue:             c.Revenue,
			Impressions:         c.Impressions,
			Clicks:              c.Clicks,
			ROAS:                c.ROAS,
			CTRPct:              c.CTRPct,
			PacePct:             c.PacePct,
			CompletionPct:       c.CompletionPct,
			ROASScore:           c.ROASScore,
			DeliveryPacingScore: c.DeliveryPacingScore,
			BurnRateScore:       c.BurnRateScore,
			CTRScore:            c.CTRScore,
			OverspendScore:      c.OverspendScore,
			HealthScore:         c.HealthScore,
			Tier:                c.Tier,
		})
	}

	h.writeJSON(w, map[string]any{
		"campaigns": views,
		"skipped":   toSkippedViews(result.Skipped),
	})
}
