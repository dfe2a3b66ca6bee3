package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"adpulse/internal/core/domain"
)

// pacingView is the JSON shape of one campaign's pacing metrics.
type pacingView struct {
	CampaignName           string  `json:"campaign_name"`
	StartDate              string  `json:"start_date"`
	EndDate                string  `json:"end_date"`
	ImpressionGoal         float64 `json:"impression_goal"`
	ExpectedImpressions    float64 `json:"expected_impressions"`
	ActualImpressions      float64 `json:"actual_impressions"`
	CurrentPacing          float64 `json:"current_pacing"`
	RemainingImpressions   float64 `json:"remaining_impressions"`
	RemainingAverageNeeded float64 `json:"remaining_average_needed"`
	YesterdayImpressions   float64 `json:"yesterday_impressions"`
	YesterdayVsNeeded      float64 `json:"yesterday_vs_needed"`
	DaysIntoCampaign       int     `json:"days_into_campaign"`
	DaysUntilEnd           int     `json:"days_until_end"`
	ReferenceDate          string  `json:"reference_date"`
}

type skippedView struct {
	CampaignName string `json:"campaign_name"`
	Reason       string `json:"reason"`
}

// handlePacing returns pacing metrics for every campaign that has
// contract terms, plus the campaigns that had to be skipped and why.
func (h *Handler) handlePacing(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CampaignPacing(r.Context())
	if err != nil {
		h.logger.Error("pacing error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]pacingView, 0, len(result.Campaigns))
	for _, c := range result.Campaigns {
		views = append(views, pacingView{
			CampaignName:           c.CampaignName,
			StartDate:              c.StartDate.Format(time.DateOnly),
			EndDate:                c.EndDate.Format(time.DateOnly),
			ImpressionGoal:         c.ImpressionGoal,
			ExpectedImpressions:    c.ExpectedImpressions,
			ActualImpressions:      c.ActualImpressions,
			CurrentPacing:          c.CurrentPacing,
			RemainingImpressions:   c.RemainingImpressions,
			RemainingAverageNeeded: c.RemainingAverageNeeded,
			YesterdayImpressions:   c.YesterdayImpressions,
			YesterdayVsNeeded:      c.YesterdayVsNeeded,
			DaysIntoCampaign:       c.DaysIntoCampaign,
			DaysUntilEnd:           c.DaysUntilEnd,
			ReferenceDate:          c.ReferenceDate.Format(time.DateOnly),
		})
	}

	h.writeJSON(w, map[string]any{
		"campaigns": views,
		"skipped":   toSkippedViews(result.Skipped),
	})
}

func toSkippedViews(skipped []domain.SkippedCampaign) []skippedView {
	views := make([]skippedView, 0, len(skipped))
	for _, s := range skipped {
		views = append(views, skippedView{CampaignName: s.CampaignName, Reason: s.Reason})
	}
	return views
}
