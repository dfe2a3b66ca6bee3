package analytics

import (
	"log/slog"
	"sort"
	"time"

	"adpulse/internal/core/domain"
)

// PacingCalculator derives delivery-vs-contract metrics per campaign.
// It holds no state beyond a logger and a clock hook, so one instance
// can be shared freely.
type PacingCalculator struct {
	logger *slog.Logger

	// now is the fallback reference date when a dataset has no dates at
	// all. Overridable in tests.
	now func() time.Time
}

// NewPacingCalculator returns a calculator that logs skipped campaigns
// through the given logger.
func NewPacingCalculator(logger *slog.Logger) *PacingCalculator {
	return &PacingCalculator{logger: logger, now: time.Now}
}

// ProcessCampaigns computes pacing metrics for every campaign in terms.
// delivery holds the rows to report yesterday figures from; unfiltered,
// when non-nil, is the full delivery history used for cumulative sums so
// callers may pass a display-filtered subset as delivery without skewing
// totals. Campaigns that cannot be computed are returned in the skip list
// with a reason instead of aborting the run.
func (p *PacingCalculator) ProcessCampaigns(terms []domain.ContractTerms, delivery, unfiltered []domain.DeliveryRecord) ([]domain.CampaignMetrics, []domain.SkippedCampaign) {
	history := unfiltered
	if history == nil {
		history = delivery
	}

	globalRef := p.referenceDate(allDates(history), p.now())

	results := make([]domain.CampaignMetrics, 0, len(terms))
	var skipped []domain.SkippedCampaign
	for _, ct := range terms {
		rows := campaignRows(delivery, ct.CampaignName)
		if len(rows) == 0 {
			p.logger.Warn("campaign has no delivery data, skipping pacing",
				slog.String("campaign", ct.CampaignName))
			skipped = append(skipped, domain.SkippedCampaign{
				CampaignName: ct.CampaignName,
				Reason:       domain.SkipNoDeliveryData,
			})
			continue
		}

		metrics, reason := p.campaignMetrics(ct, rows, campaignRows(history, ct.CampaignName), globalRef)
		if reason != "" {
			p.logger.Warn("campaign pacing computation failed, skipping",
				slog.String("campaign", ct.CampaignName),
				slog.String("reason", reason))
			skipped = append(skipped, domain.SkippedCampaign{CampaignName: ct.CampaignName, Reason: reason})
			continue
		}
		results = append(results, metrics)
	}
	return results, skipped
}

func (p *PacingCalculator) campaignMetrics(ct domain.ContractTerms, rows, history []domain.DeliveryRecord, globalRef time.Time) (domain.CampaignMetrics, string) {
	if ct.StartDate.IsZero() || ct.EndDate.IsZero() || ct.EndDate.Before(ct.StartDate) {
		return domain.CampaignMetrics{}, domain.SkipInvalidContractDates
	}

	// The campaign's own reference date can differ from the global one
	// when it stopped delivering earlier than the rest of the dataset.
	refDate := p.referenceDate(allDates(rows), globalRef)

	totalDays := domain.DaysBetween(ct.StartDate, ct.EndDate) + 1
	if totalDays <= 0 {
		return domain.CampaignMetrics{}, domain.SkipInvalidContractDates
	}

	daysInto := domain.DaysBetween(ct.StartDate, refDate) + 1
	if daysInto < 0 {
		daysInto = 0
	}
	if daysInto > totalDays {
		daysInto = totalDays
	}

	daysUntilEnd := domain.DaysBetween(refDate, ct.EndDate)
	if daysUntilEnd < 0 {
		daysUntilEnd = 0
	}

	avgDaily := ct.ImpressionGoal / float64(totalDays)
	expected := avgDaily * float64(daysInto)

	var actual, yesterday float64
	for _, row := range history {
		if row.Date.After(refDate) {
			continue
		}
		actual += row.Impressions
		if row.Date.Equal(refDate) {
			yesterday += row.Impressions
		}
	}

	pacing := 0.0
	if expected > 0 {
		pacing = actual / expected
	}

	remaining := ct.ImpressionGoal - actual
	if remaining < 0 {
		remaining = 0
	}

	remainingAvg := 0.0
	if daysUntilEnd > 0 {
		remainingAvg = remaining / float64(daysUntilEnd)
	}

	yesterdayVsNeeded := 0.0
	if remainingAvg > 0 {
		yesterdayVsNeeded = yesterday / remainingAvg
	}

	return domain.CampaignMetrics{
		CampaignName:           ct.CampaignName,
		StartDate:              ct.StartDate,
		EndDate:                ct.EndDate,
		ImpressionGoal:         ct.ImpressionGoal,
		ExpectedImpressions:    expected,
		ActualImpressions:      actual,
		CurrentPacing:          pacing,
		RemainingImpressions:   remaining,
		RemainingAverageNeeded: remainingAvg,
		YesterdayImpressions:   yesterday,
		YesterdayVsNeeded:      yesterdayVsNeeded,
		DaysIntoCampaign:       daysInto,
		DaysUntilEnd:           daysUntilEnd,
		ReferenceDate:          refDate,
	}, ""
}

// referenceDate picks the second-most-recent distinct date when two or
// more exist, the single date when only one exists, and the fallback
// otherwise. The most recent day is presumed incomplete, so basing every
// calculation on it would understate delivery.
func (p *PacingCalculator) referenceDate(dates []time.Time, fallback time.Time) time.Time {
	if len(dates) == 0 {
		return domain.DateOnly(fallback)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if len(dates) >= 2 {
		return dates[1]
	}
	return dates[0]
}

// allDates collects the distinct non-zero dates in records.
func allDates(records []domain.DeliveryRecord) []time.Time {
	seen := make(map[time.Time]struct{}, len(records))
	var dates []time.Time
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		day := domain.DateOnly(rec.Date)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	return dates
}

func campaignRows(records []domain.DeliveryRecord, name string) []domain.DeliveryRecord {
	var rows []domain.DeliveryRecord
	for _, rec := range records {
		if rec.CampaignName == name {
			rows = append(rows, rec)
		}
	}
	return rows
}
