package port

import (
	"context"
	"time"

	"adpulse/internal/core/analytics"
	"adpulse/internal/core/domain"
)

// AnalyticsUseCase defines the business operations exposed by the
// analytics engine. This interface is the primary port into the
// application domain; the HTTP adapter consumes it and tests mock it.
type AnalyticsUseCase interface {
	// RunAnomalyDetection loads the full delivery history, runs the four
	// anomaly detectors with the given thresholds (zero-valued fields
	// fall back to configured defaults), upserts the findings and records
	// the run. It returns the detected anomalies, most recent first.
	RunAnomalyDetection(ctx context.Context, opts analytics.DetectorOptions) (*DetectionResult, error)

	// ListAnomalies returns stored anomalies, most recent first,
	// excluding ignored ones unless includeIgnored is set.
	ListAnomalies(ctx context.Context, includeIgnored bool) ([]domain.CampaignAnomaly, error)

	// IgnoreAnomaly toggles the ignored flag on a stored anomaly.
	IgnoreAnomaly(ctx context.Context, id int64, ignored bool) error

	// CampaignPacing computes pacing metrics for every campaign with
	// contract terms. Campaigns that cannot be computed are reported in
	// Skipped rather than failing the call.
	CampaignPacing(ctx context.Context) (*PacingResult, error)

	// CampaignHealth computes composite health scores for every campaign
	// with both delivery and contract data, worst first.
	CampaignHealth(ctx context.Context) (*HealthResult, error)

	// CampaignTimeSeries returns a gap-filled daily series for one
	// campaign, bounded by the first and last dates that actually have
	// data.
	CampaignTimeSeries(ctx context.Context, campaign string) ([]analytics.TimeSeriesPoint, error)

	// StatsOverview aggregates delivery totals for an optional campaign
	// and period.
	StatsOverview(ctx context.Context, req StatsReq) (*StatsResp, error)

	// ImportDeliveryRecords stores already-canonical delivery rows.
	ImportDeliveryRecords(ctx context.Context, records []domain.DeliveryRecord) (int, error)

	// ImportContractTerms stores contract terms keyed by campaign name.
	ImportContractTerms(ctx context.Context, terms []domain.ContractTerms) (int, error)
}

// DetectionResult is the outcome of one anomaly detection run.
type DetectionResult struct {
	RunID     string
	Anomalies []domain.CampaignAnomaly
	Stored    int
}

// PacingResult pairs computed pacing metrics with the campaigns that had
// to be skipped and why.
type PacingResult struct {
	Campaigns []domain.CampaignMetrics
	Skipped   []domain.SkippedCampaign
}

// HealthResult pairs health scores with skipped campaigns.
type HealthResult struct {
	Campaigns []domain.CampaignHealthData
	Skipped   []domain.SkippedCampaign
}

// StatsReq narrows a stats query to a campaign (optional) and period.
type StatsReq struct {
	From     time.Time
	To       time.Time
	Campaign string
}

// StatsResp contains aggregated delivery totals for the requested period.
type StatsResp struct {
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Revenue      float64 `json:"revenue"`
	Spend        float64 `json:"spend"`
	Transactions float64 `json:"transactions"`
}
