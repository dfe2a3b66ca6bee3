package port

import (
	"context"
	"errors"
	"time"

	"adpulse/internal/core/analytics"
	"adpulse/internal/core/domain"
)

var (
	// ErrAnomalyNotFound is returned when an anomaly id does not exist.
	ErrAnomalyNotFound = errors.New("anomaly not found")
)

// AnalyticsRepository defines the persistence layer for the analytics
// engine. It is an outbound port in hexagonal architecture. The engine
// reads delivery rows and contract terms through it and hands back
// computed anomalies for upsert; deduplication against previously stored
// anomalies is the repository's concern.
type AnalyticsRepository interface {
	// ListDeliveryRecords returns delivery rows, optionally restricted to
	// one campaign (empty name means all) and a date window. Zero times
	// leave the corresponding bound open.
	ListDeliveryRecords(ctx context.Context, campaign string, from, to time.Time) ([]domain.DeliveryRecord, error)
	// InsertDeliveryRecords stores ingested delivery rows, replacing any
	// existing row for the same campaign and date.
	InsertDeliveryRecords(ctx context.Context, records []domain.DeliveryRecord) (int, error)
	// ListContractTerms returns all stored contract terms.
	ListContractTerms(ctx context.Context) ([]domain.ContractTerms, error)
	// UpsertContractTerms stores contract terms keyed by campaign name.
	UpsertContractTerms(ctx context.Context, terms []domain.ContractTerms) (int, error)
	// UpsertAnomalies stores freshly detected anomalies, matching
	// existing rows by campaign name, anomaly type and detection date so
	// repeated runs do not duplicate. It returns the number of rows
	// written.
	UpsertAnomalies(ctx context.Context, anomalies []domain.CampaignAnomaly) (int, error)
	// ListAnomalies returns stored anomalies, most recent first.
	// Ignored anomalies are included only when includeIgnored is set.
	ListAnomalies(ctx context.Context, includeIgnored bool) ([]domain.CampaignAnomaly, error)
	// SetAnomalyIgnored toggles the is_ignored flag on a stored anomaly.
	SetAnomalyIgnored(ctx context.Context, id int64, ignored bool) error
	// RecordDetectionRun stores bookkeeping for one detection run.
	RecordDetectionRun(ctx context.Context, run DetectionRun) error
}

// DetectionRun is the audit row written after each anomaly detection run.
type DetectionRun struct {
	ID           string
	StartedAt    time.Time
	Thresholds   analytics.DetectorOptions
	AnomalyCount int
}
