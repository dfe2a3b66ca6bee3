package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adpulse/internal/core/analytics"
	"adpulse/internal/core/domain"
	"adpulse/internal/core/port"
)

// AnalyticsUseCase implements port.AnalyticsUseCase. It loads data through
// the repository, runs the pure analytics core over it and stores the
// results. Every computation recomputes from the full supplied dataset;
// there is no incremental state.
type AnalyticsUseCase struct {
	repo   port.AnalyticsRepository
	pacing *analytics.PacingCalculator
	scorer *analytics.HealthScorer
	logger *slog.Logger

	// defaults applied when a detection run omits thresholds.
	defaults analytics.DetectorOptions
}

// NewAnalyticsUseCase creates the usecase with the provided repository,
// default detector thresholds and health scoring bands.
func NewAnalyticsUseCase(repo port.AnalyticsRepository, defaults analytics.DetectorOptions, bands analytics.HealthBands, weights analytics.HealthWeights, logger *slog.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		repo:     repo,
		pacing:   analytics.NewPacingCalculator(logger),
		scorer:   analytics.NewHealthScorer(bands, weights, logger),
		logger:   logger,
		defaults: defaults,
	}
}

// RunAnomalyDetection executes the four detectors over the full delivery
// history, upserts the findings and records the run under a fresh run id.
func (u *AnalyticsUseCase) RunAnomalyDetection(ctx context.Context, opts analytics.DetectorOptions) (*port.DetectionResult, error) {
	opts = u.mergeDefaults(opts)

	records, err := u.repo.ListDeliveryRecords(ctx, "", time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load delivery records: %w", err)
	}

	anomalies := analytics.DetectAllAnomalies(records, opts)

	stored, err := u.repo.UpsertAnomalies(ctx, anomalies)
	if err != nil {
		return nil, fmt.Errorf("store anomalies: %w", err)
	}

	run := port.DetectionRun{
		ID:           uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		Thresholds:   opts,
		AnomalyCount: len(anomalies),
	}
	if err = u.repo.RecordDetectionRun(ctx, run); err != nil {
		// The findings are already stored; losing the audit row is not
		// worth failing the run over.
		u.logger.Error("failed to record detection run", slog.Any("error", err))
	}

	u.logger.Info("anomaly detection completed",
		slog.String("run_id", run.ID),
		slog.Int("records", len(records)),
		slog.Int("anomalies", len(anomalies)))

	return &port.DetectionResult{RunID: run.ID, Anomalies: anomalies, Stored: stored}, nil
}

// ListAnomalies returns stored anomalies, most recent first.
func (u *AnalyticsUseCase) ListAnomalies(ctx context.Context, includeIgnored bool) ([]domain.CampaignAnomaly, error) {
	return u.repo.ListAnomalies(ctx, includeIgnored)
}

// IgnoreAnomaly toggles the ignored flag on a stored anomaly.
func (u *AnalyticsUseCase) IgnoreAnomaly(ctx context.Context, id int64, ignored bool) error {
	return u.repo.SetAnomalyIgnored(ctx, id, ignored)
}

// CampaignPacing computes pacing metrics for every campaign with contract
// terms against the full delivery history.
func (u *AnalyticsUseCase) CampaignPacing(ctx context.Context) (*port.PacingResult, error) {
	terms, err := u.repo.ListContractTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contract terms: %w", err)
	}
	records, err := u.repo.ListDeliveryRecords(ctx, "", time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load delivery records: %w", err)
	}

	campaigns, skipped := u.pacing.ProcessCampaigns(terms, records, nil)
	return &port.PacingResult{Campaigns: campaigns, Skipped: skipped}, nil
}

// CampaignHealth scores every campaign with both delivery and contract
// data. Pacing is recomputed first so the scorer sees fresh metrics.
func (u *AnalyticsUseCase) CampaignHealth(ctx context.Context) (*port.HealthResult, error) {
	terms, err := u.repo.ListContractTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contract terms: %w", err)
	}
	records, err := u.repo.ListDeliveryRecords(ctx, "", time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load delivery records: %w", err)
	}

	pacing, pacingSkipped := u.pacing.ProcessCampaigns(terms, records, nil)
	health, healthSkipped := u.scorer.CalculateCampaignHealth(records, pacing, terms)

	return &port.HealthResult{
		Campaigns: health,
		Skipped:   append(pacingSkipped, healthSkipped...),
	}, nil
}

// CampaignTimeSeries returns a gap-filled daily series for one campaign.
func (u *AnalyticsUseCase) CampaignTimeSeries(ctx context.Context, campaign string) ([]analytics.TimeSeriesPoint, error) {
	records, err := u.repo.ListDeliveryRecords(ctx, campaign, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load delivery records: %w", err)
	}

	series := analytics.SeriesFromRecords(records)
	completeRange := domain.CompleteDateRange(records)
	return analytics.FillMissingDates(series, completeRange), nil
}

// StatsOverview aggregates delivery totals for an optional campaign and
// period.
func (u *AnalyticsUseCase) StatsOverview(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	records, err := u.repo.ListDeliveryRecords(ctx, req.Campaign, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("load delivery records: %w", err)
	}

	var resp port.StatsResp
	for _, rec := range records {
		resp.Impressions += rec.Impressions
		resp.Clicks += rec.Clicks
		resp.Revenue += rec.Revenue
		resp.Spend += rec.Spend
		resp.Transactions += rec.Transactions
	}
	return &resp, nil
}

// ImportDeliveryRecords stores already-canonical delivery rows.
func (u *AnalyticsUseCase) ImportDeliveryRecords(ctx context.Context, records []domain.DeliveryRecord) (int, error) {
	return u.repo.InsertDeliveryRecords(ctx, records)
}

// ImportContractTerms stores contract terms keyed by campaign name.
func (u *AnalyticsUseCase) ImportContractTerms(ctx context.Context, terms []domain.ContractTerms) (int, error) {
	return u.repo.UpsertContractTerms(ctx, terms)
}

func (u *AnalyticsUseCase) mergeDefaults(opts analytics.DetectorOptions) analytics.DetectorOptions {
	if opts.ImpressionThresholdPct <= 0 {
		opts.ImpressionThresholdPct = u.defaults.ImpressionThresholdPct
	}
	if opts.TransactionDropThresholdPct <= 0 {
		opts.TransactionDropThresholdPct = u.defaults.TransactionDropThresholdPct
	}
	if opts.ZeroTransactionDays <= 0 {
		opts.ZeroTransactionDays = u.defaults.ZeroTransactionDays
	}
	if opts.CTRThresholdPct <= 0 {
		opts.CTRThresholdPct = u.defaults.CTRThresholdPct
	}
	return opts
}
