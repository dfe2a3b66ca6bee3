package analytics

import (
	"sort"
	"time"

	"adpulse/internal/core/domain"
)

// TimeSeriesPoint is one chart-ready day of delivery metrics.
type TimeSeriesPoint struct {
	Date         time.Time `json:"date"`
	Impressions  float64   `json:"impressions"`
	Clicks       float64   `json:"clicks"`
	Revenue      float64   `json:"revenue"`
	Spend        float64   `json:"spend"`
	Transactions float64   `json:"transactions"`
}

// FillMissingDates reconstructs a continuous daily series from sparse
// points. For every date in completeRange that falls within the first and
// last dates actually present in series, the existing point is emitted if
// one exists, otherwise a zero-valued point is synthesized. Dates outside
// the actual data span are dropped rather than zero-filled, so a chart
// never shows a flat zero line before a campaign started or after its
// last known day.
func FillMissingDates(series []TimeSeriesPoint, completeRange []time.Time) []TimeSeriesPoint {
	if len(series) == 0 {
		return nil
	}

	byDate := make(map[time.Time]TimeSeriesPoint, len(series))
	var first, last time.Time
	for _, pt := range series {
		day := domain.DateOnly(pt.Date)
		byDate[day] = pt
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	filled := make([]TimeSeriesPoint, 0, len(completeRange))
	for _, day := range completeRange {
		day = domain.DateOnly(day)
		if day.Before(first) || day.After(last) {
			continue
		}
		if pt, ok := byDate[day]; ok {
			filled = append(filled, pt)
			continue
		}
		filled = append(filled, TimeSeriesPoint{Date: day})
	}
	return filled
}

// SeriesFromRecords aggregates delivery rows into one point per day.
// Multiple rows on the same day are summed.
func SeriesFromRecords(records []domain.DeliveryRecord) []TimeSeriesPoint {
	byDate := make(map[time.Time]*TimeSeriesPoint)
	var order []time.Time
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		day := domain.DateOnly(rec.Date)
		pt, ok := byDate[day]
		if !ok {
			pt = &TimeSeriesPoint{Date: day}
			byDate[day] = pt
			order = append(order, day)
		}
		pt.Impressions += rec.Impressions
		pt.Clicks += rec.Clicks
		pt.Revenue += rec.Revenue
		pt.Spend += rec.Spend
		pt.Transactions += rec.Transactions
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	series := make([]TimeSeriesPoint, 0, len(order))
	for _, day := range order {
		series = append(series, *byDate[day])
	}
	return series
}
