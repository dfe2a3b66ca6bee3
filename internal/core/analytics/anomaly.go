package analytics

import (
	"math"
	"sort"
	"time"

	"adpulse/internal/core/domain"
)

// DetectorOptions carries the thresholds for a detection run. Zero values
// are replaced with the defaults below, so callers may set only the
// thresholds they care about.
type DetectorOptions struct {
	ImpressionThresholdPct      float64
	TransactionDropThresholdPct float64
	ZeroTransactionDays         int
	CTRThresholdPct             float64
}

// Default detector thresholds, applied when the caller leaves an option unset.
const (
	DefaultImpressionThresholdPct      = 20.0
	DefaultTransactionDropThresholdPct = 90.0
	DefaultZeroTransactionDays         = 2
	DefaultCTRThresholdPct             = 1.0
)

func (o DetectorOptions) withDefaults() DetectorOptions {
	if o.ImpressionThresholdPct <= 0 {
		o.ImpressionThresholdPct = DefaultImpressionThresholdPct
	}
	if o.TransactionDropThresholdPct <= 0 {
		o.TransactionDropThresholdPct = DefaultTransactionDropThresholdPct
	}
	if o.ZeroTransactionDays <= 0 {
		o.ZeroTransactionDays = DefaultZeroTransactionDays
	}
	if o.CTRThresholdPct <= 0 {
		o.CTRThresholdPct = DefaultCTRThresholdPct
	}
	return o
}

// DetectAllAnomalies runs the four detectors over the given delivery
// records and returns the combined findings sorted by detection date,
// most recent first. It performs no deduplication or persistence; the
// repository reconciles against previously stored anomalies by natural
// key.
func DetectAllAnomalies(records []domain.DeliveryRecord, opts DetectorOptions) []domain.CampaignAnomaly {
	opts = opts.withDefaults()

	var anomalies []domain.CampaignAnomaly
	anomalies = append(anomalies, DetectImpressionChanges(records, opts.ImpressionThresholdPct)...)
	anomalies = append(anomalies, DetectTransactionDrops(records, opts.TransactionDropThresholdPct)...)
	anomalies = append(anomalies, DetectZeroTransactionStreaks(records, opts.ZeroTransactionDays)...)
	anomalies = append(anomalies, DetectBotActivity(records, opts.CTRThresholdPct)...)

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].DateDetected.After(anomalies[j].DateDetected)
	})
	return anomalies
}

// DetectImpressionChanges flags day-over-day impression swings whose
// absolute percentage change meets thresholdPct. Pairs whose previous day
// had zero impressions are skipped. The most recent date in the dataset
// is excluded because it is presumed still accumulating.
func DetectImpressionChanges(records []domain.DeliveryRecord, thresholdPct float64) []domain.CampaignAnomaly {
	var anomalies []domain.CampaignAnomaly
	for name, days := range groupByCampaign(records, true) {
		for i := 1; i < len(days); i++ {
			prev, curr := days[i-1], days[i]
			if prev.Impressions == 0 {
				continue
			}
			pctChange := (curr.Impressions - prev.Impressions) / prev.Impressions * 100
			if math.Abs(pctChange) < thresholdPct {
				continue
			}
			anomalies = append(anomalies, domain.CampaignAnomaly{
				CampaignName: name,
				Type:         domain.AnomalyImpressionChange,
				DateDetected: curr.Date,
				Severity:     changeSeverity(pctChange),
				Details: domain.ChangeDetails{
					PreviousValue:     prev.Impressions,
					CurrentValue:      curr.Impressions,
					PercentageChange:  pctChange,
					ThresholdExceeded: thresholdPct,
				},
			})
		}
	}
	return anomalies
}

// DetectTransactionDrops flags day-over-day transaction decreases of at
// least thresholdPct. Increases are never flagged, and a drop this large
// is always high severity. Pairs starting from a zero day are skipped and
// the most recent date is excluded.
func DetectTransactionDrops(records []domain.DeliveryRecord, thresholdPct float64) []domain.CampaignAnomaly {
	var anomalies []domain.CampaignAnomaly
	for name, days := range groupByCampaign(records, true) {
		for i := 1; i < len(days); i++ {
			prev, curr := days[i-1], days[i]
			if prev.Transactions == 0 {
				continue
			}
			pctChange := (curr.Transactions - prev.Transactions) / prev.Transactions * 100
			if pctChange >= 0 || math.Abs(pctChange) < thresholdPct {
				continue
			}
			anomalies = append(anomalies, domain.CampaignAnomaly{
				CampaignName: name,
				Type:         domain.AnomalyTransactionDrop,
				DateDetected: curr.Date,
				Severity:     domain.SeverityHigh,
				Details: domain.DropDetails{
					PreviousValue:     prev.Transactions,
					CurrentValue:      curr.Transactions,
					PercentageChange:  pctChange,
					ThresholdExceeded: thresholdPct,
				},
			})
		}
	}
	return anomalies
}

// DetectZeroTransactionStreaks walks each campaign's days counting
// consecutive zero-transaction days. A streak of at least
// consecutiveDaysThreshold produces one anomaly dated on the last zero
// day, emitted when the streak ends or when the data runs out. The most
// recent date in the dataset is excluded.
func DetectZeroTransactionStreaks(records []domain.DeliveryRecord, consecutiveDaysThreshold int) []domain.CampaignAnomaly {
	var anomalies []domain.CampaignAnomaly
	for name, days := range groupByCampaign(records, true) {
		streak := 0
		var streakEnd time.Time
		for i, day := range days {
			if day.Transactions == 0 {
				streak++
				streakEnd = day.Date
				atEnd := i == len(days)-1
				nextNonZero := !atEnd && days[i+1].Transactions != 0
				if streak >= consecutiveDaysThreshold && (atEnd || nextNonZero) {
					anomalies = append(anomalies, domain.CampaignAnomaly{
						CampaignName: name,
						Type:         domain.AnomalyTransactionZero,
						DateDetected: streakEnd,
						Severity:     streakSeverity(streak),
						Details:      domain.StreakDetails{ConsecutiveDays: streak},
					})
				}
				continue
			}
			streak = 0
		}
	}
	return anomalies
}

// DetectBotActivity flags days whose click-through rate strictly exceeds
// ctrThresholdPct. Days without impressions are skipped. Unlike the other
// detectors this one includes the most recent date: CTR is a ratio and
// stays meaningful on a partial day.
func DetectBotActivity(records []domain.DeliveryRecord, ctrThresholdPct float64) []domain.CampaignAnomaly {
	var anomalies []domain.CampaignAnomaly
	for name, days := range groupByCampaign(records, false) {
		for _, day := range days {
			if day.Impressions <= 0 {
				continue
			}
			ctr := day.Clicks / day.Impressions * 100
			if ctr <= ctrThresholdPct {
				continue
			}
			anomalies = append(anomalies, domain.CampaignAnomaly{
				CampaignName: name,
				Type:         domain.AnomalyBotActivity,
				DateDetected: day.Date,
				Severity:     ctrSeverity(ctr),
				Details: domain.BotActivityDetails{
					CTRPercentage:     ctr,
					Clicks:            day.Clicks,
					Impressions:       day.Impressions,
					ThresholdExceeded: ctrThresholdPct,
				},
			})
		}
	}
	return anomalies
}

// groupByCampaign buckets records by campaign name with each bucket
// sorted by date ascending. Records with a zero date are dropped. When
// excludeLatest is set, rows on the single most recent date across the
// whole dataset are removed first, since that day is presumed incomplete.
func groupByCampaign(records []domain.DeliveryRecord, excludeLatest bool) map[string][]domain.DeliveryRecord {
	var latest time.Time
	if excludeLatest {
		for _, rec := range records {
			if rec.Date.After(latest) {
				latest = rec.Date
			}
		}
	}

	groups := make(map[string][]domain.DeliveryRecord)
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		if excludeLatest && rec.Date.Equal(latest) {
			continue
		}
		groups[rec.CampaignName] = append(groups[rec.CampaignName], rec)
	}
	for name := range groups {
		days := groups[name]
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
		groups[name] = days
	}
	return groups
}

func changeSeverity(pctChange float64) domain.Severity {
	abs := math.Abs(pctChange)
	switch {
	case abs >= 50:
		return domain.SeverityHigh
	case abs >= 35:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func streakSeverity(days int) domain.Severity {
	switch {
	case days >= 7:
		return domain.SeverityHigh
	case days >= 4:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// ctrSeverity has no low tier: anything above the base threshold but
// below 1.5% still reports medium. The 2.0 and 5.0 cut-points both map
// to high; the duplication is kept so the bands stay explicit.
func ctrSeverity(ctr float64) domain.Severity {
	switch {
	case ctr >= 5.0:
		return domain.SeverityHigh
	case ctr >= 2.0:
		return domain.SeverityHigh
	case ctr >= 1.5:
		return domain.SeverityMedium
	default:
		return domain.SeverityMedium
	}
}
