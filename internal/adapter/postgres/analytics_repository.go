package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adpulse/internal/core/domain"
	"adpulse/internal/core/port"
)

// AnalyticsRepository implements port.AnalyticsRepository using pgxpool
// for PostgreSQL.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns a new repository instance.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// ListDeliveryRecords returns delivery rows ordered by date ascending.
// An empty campaign selects all campaigns; zero times leave the date
// bounds open.
func (r *AnalyticsRepository) ListDeliveryRecords(ctx context.Context, campaign string, from, to time.Time) ([]domain.DeliveryRecord, error) {
	query := `
        SELECT delivery_date, campaign_name, impressions, clicks, revenue, spend, transactions
        FROM delivery_records
        WHERE ($1 = '' OR campaign_name = $1)
          AND ($2::date IS NULL OR delivery_date >= $2)
          AND ($3::date IS NULL OR delivery_date <= $3)
        ORDER BY delivery_date`

	rows, err := r.pool.Query(ctx, query, campaign, nullDate(from), nullDate(to))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DeliveryRecord, error) {
		var rec domain.DeliveryRecord
		err := row.Scan(
			&rec.Date,
			&rec.CampaignName,
			&rec.Impressions,
			&rec.Clicks,
			&rec.Revenue,
			&rec.Spend,
			&rec.Transactions,
		)
		rec.Date = domain.DateOnly(rec.Date)
		return rec, err
	})
}

// InsertDeliveryRecords stores ingested delivery rows, replacing any
// existing row for the same campaign and date.
func (r *AnalyticsRepository) InsertDeliveryRecords(ctx context.Context, records []domain.DeliveryRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	const query = `
        INSERT INTO delivery_records (delivery_date, campaign_name, impressions, clicks, revenue, spend, transactions)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (delivery_date, campaign_name)
        DO UPDATE SET impressions = EXCLUDED.impressions,
                      clicks = EXCLUDED.clicks,
                      revenue = EXCLUDED.revenue,
                      spend = EXCLUDED.spend,
                      transactions = EXCLUDED.transactions`

	count := 0
	for _, rec := range records {
		if _, err = tx.Exec(ctx, query, domain.DateOnly(rec.Date), rec.CampaignName, rec.Impressions, rec.Clicks, rec.Revenue, rec.Spend, rec.Transactions); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ListContractTerms returns all stored contract terms.
func (r *AnalyticsRepository) ListContractTerms(ctx context.Context) ([]domain.ContractTerms, error) {
	query := `
        SELECT campaign_name, start_date, end_date, budget, cpm, impression_goal
        FROM contract_terms
        ORDER BY campaign_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ContractTerms, error) {
		var ct domain.ContractTerms
		err := row.Scan(
			&ct.CampaignName,
			&ct.StartDate,
			&ct.EndDate,
			&ct.Budget,
			&ct.CPM,
			&ct.ImpressionGoal,
		)
		ct.StartDate = domain.DateOnly(ct.StartDate)
		ct.EndDate = domain.DateOnly(ct.EndDate)
		return ct, err
	})
}

// UpsertContractTerms stores contract terms keyed by campaign name.
func (r *AnalyticsRepository) UpsertContractTerms(ctx context.Context, terms []domain.ContractTerms) (int, error) {
	const query = `
        INSERT INTO contract_terms (campaign_name, start_date, end_date, budget, cpm, impression_goal)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (campaign_name)
        DO UPDATE SET start_date = EXCLUDED.start_date,
                      end_date = EXCLUDED.end_date,
                      budget = EXCLUDED.budget,
                      cpm = EXCLUDED.cpm,
                      impression_goal = EXCLUDED.impression_goal,
                      updated_at = now()`

	count := 0
	for _, ct := range terms {
		if _, err := r.pool.Exec(ctx, query, ct.CampaignName, domain.DateOnly(ct.StartDate), domain.DateOnly(ct.EndDate), ct.Budget, ct.CPM, ct.ImpressionGoal); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// UpsertAnomalies stores detected anomalies. The natural key is campaign
// name + anomaly type + detection date; re-running detection refreshes
// severity and details on existing rows instead of duplicating them. The
// is_ignored flag survives refreshes so operator decisions stick.
func (r *AnalyticsRepository) UpsertAnomalies(ctx context.Context, anomalies []domain.CampaignAnomaly) (int, error) {
	if len(anomalies) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	const query = `
        INSERT INTO campaign_anomalies (campaign_name, anomaly_type, date_detected, severity, details, custom_duration)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (campaign_name, anomaly_type, date_detected)
        DO UPDATE SET severity = EXCLUDED.severity,
                      details = EXCLUDED.details,
                      custom_duration = EXCLUDED.custom_duration,
                      updated_at = now()`

	count := 0
	for _, a := range anomalies {
		var details []byte
		details, err = json.Marshal(a.Details)
		if err != nil {
			return count, fmt.Errorf("encode details for %s/%s: %w", a.CampaignName, a.Type, err)
		}
		if _, err = tx.Exec(ctx, query, a.CampaignName, string(a.Type), a.DateDetected, string(a.Severity), details, a.CustomDuration); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ListAnomalies returns stored anomalies, most recent first. Ignored
// anomalies are filtered out unless includeIgnored is set.
func (r *AnalyticsRepository) ListAnomalies(ctx context.Context, includeIgnored bool) ([]domain.CampaignAnomaly, error) {
	query := `
        SELECT id, campaign_name, anomaly_type, date_detected, severity, details, is_ignored, custom_duration
        FROM campaign_anomalies
        WHERE ($1 OR NOT is_ignored)
        ORDER BY date_detected DESC, campaign_name`

	rows, err := r.pool.Query(ctx, query, includeIgnored)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CampaignAnomaly, error) {
		var (
			a          domain.CampaignAnomaly
			anomalyTyp string
			severity   string
			rawDetails []byte
		)
		if err := row.Scan(&a.ID, &a.CampaignName, &anomalyTyp, &a.DateDetected, &severity, &rawDetails, &a.IsIgnored, &a.CustomDuration); err != nil {
			return a, err
		}
		a.Type = domain.AnomalyType(anomalyTyp)
		a.Severity = domain.Severity(severity)
		a.DateDetected = domain.DateOnly(a.DateDetected)
		details, err := decodeDetails(a.Type, rawDetails)
		if err != nil {
			return a, err
		}
		a.Details = details
		return a, nil
	})
}

// SetAnomalyIgnored toggles the is_ignored flag on a stored anomaly.
func (r *AnalyticsRepository) SetAnomalyIgnored(ctx context.Context, id int64, ignored bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaign_anomalies SET is_ignored = $1, updated_at = now() WHERE id = $2`,
		ignored, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrAnomalyNotFound
	}
	return nil
}

// RecordDetectionRun stores bookkeeping for one detection run.
func (r *AnalyticsRepository) RecordDetectionRun(ctx context.Context, run port.DetectionRun) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO detection_runs (id, started_at, impression_threshold, transaction_drop_threshold, zero_transaction_days, ctr_threshold, anomaly_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID,
		run.StartedAt,
		run.Thresholds.ImpressionThresholdPct,
		run.Thresholds.TransactionDropThresholdPct,
		run.Thresholds.ZeroTransactionDays,
		run.Thresholds.CTRThresholdPct,
		run.AnomalyCount,
	)
	return err
}

// decodeDetails rebuilds the typed details payload from its stored JSON
// form using the anomaly type as the tag.
func decodeDetails(typ domain.AnomalyType, raw []byte) (domain.AnomalyDetails, error) {
	switch typ {
	case domain.AnomalyImpressionChange:
		var d domain.ChangeDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case domain.AnomalyTransactionDrop:
		var d domain.DropDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case domain.AnomalyTransactionZero:
		var d domain.StreakDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case domain.AnomalyBotActivity:
		var d domain.BotActivityDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, errors.New("unknown anomaly type: " + string(typ))
	}
}

func nullDate(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	day := domain.DateOnly(value)
	return &day
}
