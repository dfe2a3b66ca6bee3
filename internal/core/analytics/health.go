package analytics

import (
	"log/slog"
	"math"
	"sort"

	"adpulse/internal/core/domain"
)

// HealthBands are the named cut-points behind every health sub-score.
// They are a tuning surface, not fixed business rules; construct with
// DefaultHealthBands and override as needed.
type HealthBands struct {
	// ROAS cut-points, best to worst. At or above Excellent scores 10.
	ROASExcellent float64
	ROASGood      float64
	ROASFair      float64
	ROASPoor      float64

	// Pacing cut-points as absolute distance from the ideal ratio 1.0.
	PacingTight float64
	PacingNear  float64
	PacingWide  float64

	// Burn-rate cut-points as absolute distance between spend progress
	// and schedule progress.
	BurnTight float64
	BurnNear  float64
	BurnWide  float64

	// CTR cut-points in percent. The sweet spot is [CTRLow, CTRCeiling].
	CTRFloor   float64
	CTRLow     float64
	CTRCeiling float64
	CTRHigh    float64

	// Overspend cut-points as spend / budget-to-date ratios.
	OverspendMinor float64
	OverspendMajor float64
}

// HealthWeights are the composite weights applied to the sub-scores.
type HealthWeights struct {
	ROAS      float64
	Pacing    float64
	BurnRate  float64
	CTR       float64
	Overspend float64
}

// DefaultHealthBands returns the standard scoring cut-points.
func DefaultHealthBands() HealthBands {
	return HealthBands{
		ROASExcellent: 4, ROASGood: 3, ROASFair: 2, ROASPoor: 1,
		PacingTight: 0.1, PacingNear: 0.25, PacingWide: 0.5,
		BurnTight: 0.1, BurnNear: 0.25, BurnWide: 0.5,
		CTRFloor: 0.05, CTRLow: 0.1, CTRCeiling: 1.0, CTRHigh: 2.0,
		OverspendMinor: 1.0, OverspendMajor: 1.1,
	}
}

// DefaultHealthWeights returns the standard composite weights. ROAS
// dominates, pacing second, with burn rate, CTR and overspend rounding
// out the remainder.
func DefaultHealthWeights() HealthWeights {
	return HealthWeights{ROAS: 0.40, Pacing: 0.30, BurnRate: 0.15, CTR: 0.10, Overspend: 0.05}
}

// HealthScorer combines per-campaign delivery, pacing and contract data
// into one weighted 0-10 composite score.
type HealthScorer struct {
	bands   HealthBands
	weights HealthWeights
	logger  *slog.Logger
}

// NewHealthScorer builds a scorer with the given bands and weights.
func NewHealthScorer(bands HealthBands, weights HealthWeights, logger *slog.Logger) *HealthScorer {
	return &HealthScorer{bands: bands, weights: weights, logger: logger}
}

// CalculateCampaignHealth scores every campaign that has both delivery
// and contract data. A campaign missing pacing data still gets a partial
// score with zero for the unavailable sub-scores; a campaign missing
// contract terms is skipped with a reason. The result is sorted worst
// first so attention lands where it is needed.
func (h *HealthScorer) CalculateCampaignHealth(delivery []domain.DeliveryRecord, pacing []domain.CampaignMetrics, terms []domain.ContractTerms) ([]domain.CampaignHealthData, []domain.SkippedCampaign) {
	termsByName := make(map[string]domain.ContractTerms, len(terms))
	for _, ct := range terms {
		termsByName[ct.CampaignName] = ct
	}
	pacingByName := make(map[string]domain.CampaignMetrics, len(pacing))
	for _, pm := range pacing {
		pacingByName[pm.CampaignName] = pm
	}

	totals := make(map[string]*campaignTotals)
	var names []string
	for _, rec := range delivery {
		t, ok := totals[rec.CampaignName]
		if !ok {
			t = &campaignTotals{}
			totals[rec.CampaignName] = t
			names = append(names, rec.CampaignName)
		}
		t.spend += rec.Spend
		t.revenue += rec.Revenue
		t.impressions += rec.Impressions
		t.clicks += rec.Clicks
	}
	sort.Strings(names)

	results := make([]domain.CampaignHealthData, 0, len(names))
	var skipped []domain.SkippedCampaign
	for _, name := range names {
		ct, ok := termsByName[name]
		if !ok {
			h.logger.Warn("campaign has no contract terms, skipping health score",
				slog.String("campaign", name))
			skipped = append(skipped, domain.SkippedCampaign{
				CampaignName: name,
				Reason:       domain.SkipNoContractTerms,
			})
			continue
		}
		results = append(results, h.scoreCampaign(name, *totals[name], pacingByName[name], ct))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].HealthScore < results[j].HealthScore
	})
	return results, skipped
}

type campaignTotals struct {
	spend, revenue, impressions, clicks float64
}

func (h *HealthScorer) scoreCampaign(name string, t campaignTotals, pm domain.CampaignMetrics, ct domain.ContractTerms) domain.CampaignHealthData {
	data := domain.CampaignHealthData{
		CampaignName: name,
		Spend:        t.spend,
		Revenue:      t.revenue,
		Impressions:  t.impressions,
		Clicks:       t.clicks,
	}

	if t.spend > 0 {
		data.ROAS = t.revenue / t.spend
	}
	if t.impressions > 0 {
		data.CTRPct = t.clicks / t.impressions * 100
	}
	data.PacePct = pm.CurrentPacing * 100
	if ct.ImpressionGoal > 0 {
		data.CompletionPct = t.impressions / ct.ImpressionGoal * 100
	}

	scheduleProgress := 0.0
	if pm.StartDate.IsZero() {
		// No pacing data for this campaign: the pacing and burn-rate
		// sub-scores stay at zero and the composite is partial.
		data.ROASScore = h.scoreROAS(data.ROAS)
		data.CTRScore = h.scoreCTR(data.CTRPct)
		data.OverspendScore = h.scoreOverspend(t.spend, ct.Budget, 0)
	} else {
		totalDays := domain.DaysBetween(pm.StartDate, pm.EndDate) + 1
		if totalDays > 0 {
			scheduleProgress = float64(pm.DaysIntoCampaign) / float64(totalDays)
		}
		data.ROASScore = h.scoreROAS(data.ROAS)
		data.DeliveryPacingScore = h.scorePacing(pm.CurrentPacing)
		data.BurnRateScore = h.scoreBurnRate(t.spend, ct.Budget, scheduleProgress)
		data.CTRScore = h.scoreCTR(data.CTRPct)
		data.OverspendScore = h.scoreOverspend(t.spend, ct.Budget, scheduleProgress)
	}

	// Overspend is scored 0-5 and scaled to a 0-10 contribution.
	data.HealthScore = h.weights.ROAS*data.ROASScore +
		h.weights.Pacing*data.DeliveryPacingScore +
		h.weights.BurnRate*data.BurnRateScore +
		h.weights.CTR*data.CTRScore +
		h.weights.Overspend*(data.OverspendScore*2)
	data.HealthScore = math.Max(0, math.Min(10, data.HealthScore))
	data.Tier = HealthTier(data.HealthScore)

	return data
}

// HealthTier buckets a composite score for display.
func HealthTier(score float64) domain.HealthTier {
	switch {
	case score >= 7:
		return domain.TierHealthy
	case score >= 4:
		return domain.TierWarning
	default:
		return domain.TierCritical
	}
}

func (h *HealthScorer) scoreROAS(roas float64) float64 {
	b := h.bands
	switch {
	case roas >= b.ROASExcellent:
		return 10
	case roas >= b.ROASGood:
		return 8
	case roas >= b.ROASFair:
		return 6
	case roas >= b.ROASPoor:
		return 4
	case roas > 0:
		return 2
	default:
		return 0
	}
}

func (h *HealthScorer) scorePacing(pacing float64) float64 {
	if pacing <= 0 {
		return 0
	}
	b := h.bands
	distance := math.Abs(pacing - 1.0)
	switch {
	case distance <= b.PacingTight:
		return 10
	case distance <= b.PacingNear:
		return 7
	case distance <= b.PacingWide:
		return 4
	default:
		return 1
	}
}

// scoreBurnRate compares spend progress against schedule progress: money
// going out faster or slower than the flight plan both score down.
func (h *HealthScorer) scoreBurnRate(spend, budget, scheduleProgress float64) float64 {
	if budget <= 0 || scheduleProgress <= 0 {
		return 0
	}
	b := h.bands
	spendProgress := spend / budget
	distance := math.Abs(spendProgress - scheduleProgress)
	switch {
	case distance <= b.BurnTight:
		return 10
	case distance <= b.BurnNear:
		return 7
	case distance <= b.BurnWide:
		return 4
	default:
		return 1
	}
}

func (h *HealthScorer) scoreCTR(ctrPct float64) float64 {
	b := h.bands
	switch {
	case ctrPct <= 0:
		return 0
	case ctrPct < b.CTRFloor:
		return 2
	case ctrPct < b.CTRLow:
		return 6
	case ctrPct <= b.CTRCeiling:
		return 10
	case ctrPct <= b.CTRHigh:
		// Above the organic range: possible incentivized or fraudulent clicks.
		return 5
	default:
		return 2
	}
}

// scoreOverspend is the only 0-5 sub-score. It penalises spend running
// ahead of the budget consumed at this point in the schedule.
func (h *HealthScorer) scoreOverspend(spend, budget, scheduleProgress float64) float64 {
	if budget <= 0 {
		return 0
	}
	allowed := budget * scheduleProgress
	if allowed <= 0 {
		// Nothing should have been spent yet; any spend is overspend.
		if spend > 0 {
			return 0
		}
		return 5
	}
	b := h.bands
	ratio := spend / allowed
	switch {
	case ratio <= b.OverspendMinor:
		return 5
	case ratio <= b.OverspendMajor:
		return 3
	default:
		return 1
	}
}
