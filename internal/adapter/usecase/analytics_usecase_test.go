package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"adpulse/internal/core/analytics"
	"adpulse/internal/core/domain"
	"adpulse/internal/core/port"
)

// mockRepository is a hand-rolled testify mock for port.AnalyticsRepository.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) ListDeliveryRecords(ctx context.Context, campaign string, from, to time.Time) ([]domain.DeliveryRecord, error) {
	args := m.Called(ctx, campaign, from, to)
	records, _ := args.Get(0).([]domain.DeliveryRecord)
	return records, args.Error(1)
}

func (m *mockRepository) InsertDeliveryRecords(ctx context.Context, records []domain.DeliveryRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) UpsertContractTerms(ctx context.Context, terms []domain.ContractTerms) (int, error) {
	args := m.Called(ctx, terms)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) ListContractTerms(ctx context.Context) ([]domain.ContractTerms, error) {
	args := m.Called(ctx)
	terms, _ := args.Get(0).([]domain.ContractTerms)
	return terms, args.Error(1)
}

func (m *mockRepository) UpsertAnomalies(ctx context.Context, anomalies []domain.CampaignAnomaly) (int, error) {
	args := m.Called(ctx, anomalies)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) ListAnomalies(ctx context.Context, includeIgnored bool) ([]domain.CampaignAnomaly, error) {
	args := m.Called(ctx, includeIgnored)
	anomalies, _ := args.Get(0).([]domain.CampaignAnomaly)
	return anomalies, args.Error(1)
}

func (m *mockRepository) SetAnomalyIgnored(ctx context.Context, id int64, ignored bool) error {
	args := m.Called(ctx, id, ignored)
	return args.Error(0)
}

func (m *mockRepository) RecordDetectionRun(ctx context.Context, run port.DetectionRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func newTestUseCase(repo *mockRepository) *AnalyticsUseCase {
	return NewAnalyticsUseCase(repo,
		analytics.DetectorOptions{
			ImpressionThresholdPct:      20,
			TransactionDropThresholdPct: 90,
			ZeroTransactionDays:         2,
			CTRThresholdPct:             1.0,
		},
		analytics.DefaultHealthBands(),
		analytics.DefaultHealthWeights(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func dayRec(d int, impressions, clicks, transactions float64) domain.DeliveryRecord {
	return domain.DeliveryRecord{
		Date:         time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC),
		CampaignName: "A",
		Impressions:  impressions,
		Clicks:       clicks,
		Transactions: transactions,
	}
}

// TestRunAnomalyDetection ensures a detection run flags an impression
// cliff, stores the findings and records the run.
func TestRunAnomalyDetection(t *testing.T) {
	repo := &mockRepository{}
	records := []domain.DeliveryRecord{
		dayRec(1, 1000, 5, 10),
		dayRec(2, 100, 1, 10),
		dayRec(3, 100, 1, 10),
	}

	repo.On("ListDeliveryRecords", mock.Anything, "", time.Time{}, time.Time{}).
		Return(records, nil)
	repo.On("UpsertAnomalies", mock.Anything, mock.AnythingOfType("[]domain.CampaignAnomaly")).
		Return(1, nil)
	repo.On("RecordDetectionRun", mock.Anything, mock.AnythingOfType("port.DetectionRun")).
		Return(nil)

	svc := newTestUseCase(repo)
	result, err := svc.RunAnomalyDetection(context.Background(), analytics.DetectorOptions{})
	if err != nil {
		t.Fatalf("RunAnomalyDetection error: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(result.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(result.Anomalies))
	}
	if result.Anomalies[0].Type != domain.AnomalyImpressionChange {
		t.Fatalf("anomaly type = %s", result.Anomalies[0].Type)
	}
	if result.Stored != 1 {
		t.Fatalf("stored = %d, want 1", result.Stored)
	}
	repo.AssertExpectations(t)
}

// TestRunAnomalyDetectionSurvivesRunRecordFailure checks that losing the
// audit row does not fail the run once anomalies are stored.
func TestRunAnomalyDetectionSurvivesRunRecordFailure(t *testing.T) {
	repo := &mockRepository{}
	repo.On("ListDeliveryRecords", mock.Anything, "", time.Time{}, time.Time{}).
		Return([]domain.DeliveryRecord(nil), nil)
	repo.On("UpsertAnomalies", mock.Anything, mock.Anything).Return(0, nil)
	repo.On("RecordDetectionRun", mock.Anything, mock.Anything).
		Return(context.DeadlineExceeded)

	svc := newTestUseCase(repo)
	result, err := svc.RunAnomalyDetection(context.Background(), analytics.DetectorOptions{})
	if err != nil {
		t.Fatalf("RunAnomalyDetection error: %v", err)
	}
	if len(result.Anomalies) != 0 {
		t.Fatalf("expected no anomalies, got %d", len(result.Anomalies))
	}
}

func TestCampaignPacingReportsSkips(t *testing.T) {
	repo := &mockRepository{}
	terms := []domain.ContractTerms{
		{CampaignName: "A", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), ImpressionGoal: 1000},
		{CampaignName: "ghost", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), ImpressionGoal: 1000},
	}
	records := []domain.DeliveryRecord{
		dayRec(1, 100, 0, 0),
		dayRec(2, 100, 0, 0),
		dayRec(3, 100, 0, 0),
	}

	repo.On("ListContractTerms", mock.Anything).Return(terms, nil)
	repo.On("ListDeliveryRecords", mock.Anything, "", time.Time{}, time.Time{}).
		Return(records, nil)

	svc := newTestUseCase(repo)
	result, err := svc.CampaignPacing(context.Background())
	if err != nil {
		t.Fatalf("CampaignPacing error: %v", err)
	}
	if len(result.Campaigns) != 1 || result.Campaigns[0].CampaignName != "A" {
		t.Fatalf("unexpected campaigns: %+v", result.Campaigns)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].CampaignName != "ghost" {
		t.Fatalf("unexpected skips: %+v", result.Skipped)
	}
}

func TestCampaignTimeSeriesGapFilled(t *testing.T) {
	repo := &mockRepository{}
	records := []domain.DeliveryRecord{
		dayRec(1, 100, 1, 0),
		dayRec(4, 400, 4, 0),
	}
	repo.On("ListDeliveryRecords", mock.Anything, "A", time.Time{}, time.Time{}).
		Return(records, nil)

	svc := newTestUseCase(repo)
	series, err := svc.CampaignTimeSeries(context.Background(), "A")
	if err != nil {
		t.Fatalf("CampaignTimeSeries error: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("expected 4 points, got %d", len(series))
	}
	if series[1].Impressions != 0 || series[2].Impressions != 0 {
		t.Fatalf("gap days not zero-filled: %+v", series)
	}
}

func TestStatsOverviewAggregates(t *testing.T) {
	repo := &mockRepository{}
	records := []domain.DeliveryRecord{
		dayRec(1, 100, 1, 2),
		dayRec(2, 200, 3, 4),
	}
	repo.On("ListDeliveryRecords", mock.Anything, "A", time.Time{}, time.Time{}).
		Return(records, nil)

	svc := newTestUseCase(repo)
	stats, err := svc.StatsOverview(context.Background(), port.StatsReq{Campaign: "A"})
	if err != nil {
		t.Fatalf("StatsOverview error: %v", err)
	}
	if stats.Impressions != 300 || stats.Clicks != 4 || stats.Transactions != 6 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
}
