package domain

import "time"

// CampaignMetrics is the pacing output for one campaign, recomputed from
// scratch on every run. CurrentPacing of 1.0 means delivery is exactly on
// pace against the contracted impression goal.
type CampaignMetrics struct {
	CampaignName           string
	StartDate              time.Time
	EndDate                time.Time
	ImpressionGoal         float64
	ExpectedImpressions    float64
	ActualImpressions      float64
	CurrentPacing          float64
	RemainingImpressions   float64
	RemainingAverageNeeded float64
	YesterdayImpressions   float64
	YesterdayVsNeeded      float64
	DaysIntoCampaign       int
	DaysUntilEnd           int
	ReferenceDate          time.Time
}

// HealthTier buckets a composite health score for display.
type HealthTier string

const (
	TierHealthy  HealthTier = "healthy"
	TierWarning  HealthTier = "warning"
	TierCritical HealthTier = "critical"
)

// CampaignHealthData carries the composite health score for one campaign
// along with the raw metrics and the five sub-scores it was derived from.
// Sub-scores are 0-10 except OverspendScore which is 0-5 and scaled up
// before weighting.
type CampaignHealthData struct {
	CampaignName string

	Spend         float64
	Revenue       float64
	Impressions   float64
	Clicks        float64
	ROAS          float64
	CTRPct        float64
	PacePct       float64
	CompletionPct float64

	ROASScore           float64
	DeliveryPacingScore float64
	BurnRateScore       float64
	CTRScore            float64
	OverspendScore      float64

	HealthScore float64
	Tier        HealthTier
}

// SkippedCampaign records why a campaign was excluded from a batch
// computation. Batch entry points never abort on one bad campaign; they
// return the survivors plus this list.
type SkippedCampaign struct {
	CampaignName string
	Reason       string
}

// Skip reasons reported by the pacing calculator and health scorer.
const (
	SkipNoDeliveryData       = "no_delivery_data"
	SkipNoContractTerms      = "no_contract_terms"
	SkipInvalidContractDates = "invalid_contract_dates"
	SkipComputation          = "computation_error"
)
