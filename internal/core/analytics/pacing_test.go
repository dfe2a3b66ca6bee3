package analytics

import (
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"
	"time"

	"adpulse/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func impressionsOn(date time.Time, campaign string, impressions float64) domain.DeliveryRecord {
	return domain.DeliveryRecord{Date: date, CampaignName: campaign, Impressions: impressions}
}

func TestProcessCampaignsOnPace(t *testing.T) {
	terms := []domain.ContractTerms{{
		CampaignName:   "A",
		StartDate:      day(2024, 1, 1),
		EndDate:        day(2024, 1, 10),
		ImpressionGoal: 1000,
	}}
	// Rows on Jan 1-6; the reference date is the second most recent
	// distinct date, Jan 5, so days 1-5 count toward actuals.
	var delivery []domain.DeliveryRecord
	for d := 1; d <= 6; d++ {
		delivery = append(delivery, impressionsOn(day(2024, 1, d), "A", 100))
	}

	calc := NewPacingCalculator(testLogger())
	results, skipped := calc.ProcessCampaigns(terms, delivery, nil)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	m := results[0]
	if !m.ReferenceDate.Equal(day(2024, 1, 5)) {
		t.Fatalf("reference date = %v, want 2024-01-05", m.ReferenceDate)
	}
	if m.DaysIntoCampaign != 5 {
		t.Fatalf("days into campaign = %d, want 5", m.DaysIntoCampaign)
	}
	if m.ExpectedImpressions != 500 {
		t.Fatalf("expected impressions = %v, want 500", m.ExpectedImpressions)
	}
	if m.ActualImpressions != 500 {
		t.Fatalf("actual impressions = %v, want 500", m.ActualImpressions)
	}
	if m.CurrentPacing != 1.0 {
		t.Fatalf("pacing = %v, want 1.0", m.CurrentPacing)
	}
	if m.RemainingImpressions != 500 {
		t.Fatalf("remaining = %v, want 500", m.RemainingImpressions)
	}
	if m.DaysUntilEnd != 5 {
		t.Fatalf("days until end = %d, want 5", m.DaysUntilEnd)
	}
	if m.RemainingAverageNeeded != 100 {
		t.Fatalf("remaining average = %v, want 100", m.RemainingAverageNeeded)
	}
	if m.YesterdayImpressions != 100 {
		t.Fatalf("yesterday impressions = %v, want 100", m.YesterdayImpressions)
	}
	if math.Abs(m.YesterdayVsNeeded-1.0) > 1e-9 {
		t.Fatalf("yesterday vs needed = %v, want 1.0", m.YesterdayVsNeeded)
	}
}

func TestProcessCampaignsIdempotent(t *testing.T) {
	terms := []domain.ContractTerms{{
		CampaignName:   "A",
		StartDate:      day(2024, 1, 1),
		EndDate:        day(2024, 1, 31),
		ImpressionGoal: 31000,
	}}
	delivery := []domain.DeliveryRecord{
		impressionsOn(day(2024, 1, 1), "A", 900),
		impressionsOn(day(2024, 1, 2), "A", 1100),
		impressionsOn(day(2024, 1, 3), "A", 1000),
	}

	calc := NewPacingCalculator(testLogger())
	first, _ := calc.ProcessCampaigns(terms, delivery, nil)
	second, _ := calc.ProcessCampaigns(terms, delivery, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated runs differ:\n%+v\n%+v", first, second)
	}
}

func TestProcessCampaignsSkipsWithoutDelivery(t *testing.T) {
	terms := []domain.ContractTerms{
		{CampaignName: "A", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 10), ImpressionGoal: 1000},
		{CampaignName: "ghost", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 10), ImpressionGoal: 1000},
	}
	delivery := []domain.DeliveryRecord{
		impressionsOn(day(2024, 1, 1), "A", 100),
		impressionsOn(day(2024, 1, 2), "A", 100),
	}

	calc := NewPacingCalculator(testLogger())
	results, skipped := calc.ProcessCampaigns(terms, delivery, nil)
	if len(results) != 1 || results[0].CampaignName != "A" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(skipped) != 1 || skipped[0].CampaignName != "ghost" || skipped[0].Reason != domain.SkipNoDeliveryData {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
}

func TestProcessCampaignsSkipsInvalidContractDates(t *testing.T) {
	terms := []domain.ContractTerms{{
		CampaignName:   "A",
		StartDate:      day(2024, 1, 10),
		EndDate:        day(2024, 1, 1), // end before start
		ImpressionGoal: 1000,
	}}
	delivery := []domain.DeliveryRecord{
		impressionsOn(day(2024, 1, 1), "A", 100),
		impressionsOn(day(2024, 1, 2), "A", 100),
	}

	calc := NewPacingCalculator(testLogger())
	results, skipped := calc.ProcessCampaigns(terms, delivery, nil)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
	if len(skipped) != 1 || skipped[0].Reason != domain.SkipInvalidContractDates {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
}

func TestProcessCampaignsSingleDateUsesIt(t *testing.T) {
	terms := []domain.ContractTerms{{
		CampaignName:   "A",
		StartDate:      day(2024, 1, 1),
		EndDate:        day(2024, 1, 10),
		ImpressionGoal: 1000,
	}}
	delivery := []domain.DeliveryRecord{impressionsOn(day(2024, 1, 3), "A", 250)}

	calc := NewPacingCalculator(testLogger())
	results, _ := calc.ProcessCampaigns(terms, delivery, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].ReferenceDate.Equal(day(2024, 1, 3)) {
		t.Fatalf("reference date = %v, want the single date", results[0].ReferenceDate)
	}
}

func TestProcessCampaignsUnfilteredHistoryForTotals(t *testing.T) {
	terms := []domain.ContractTerms{{
		CampaignName:   "A",
		StartDate:      day(2024, 1, 1),
		EndDate:        day(2024, 1, 10),
		ImpressionGoal: 1000,
	}}
	// The display subset only has two days, the full history has four.
	subset := []domain.DeliveryRecord{
		impressionsOn(day(2024, 1, 3), "A", 100),
		impressionsOn(day(2024, 1, 4), "A", 100),
	}
	full := []domain.DeliveryRecord{
		impressionsOn(day(2024, 1, 1), "A", 100),
		impressionsOn(day(2024, 1, 2), "A", 100),
		impressionsOn(day(2024, 1, 3), "A", 100),
		impressionsOn(day(2024, 1, 4), "A", 100),
	}

	calc := NewPacingCalculator(testLogger())
	results, _ := calc.ProcessCampaigns(terms, subset, full)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// Reference date comes from the subset (second most recent: Jan 3)
	// but actuals sum the full history up to it.
	if results[0].ActualImpressions != 300 {
		t.Fatalf("actual impressions = %v, want 300 from full history", results[0].ActualImpressions)
	}
}

func TestProcessCampaignsZeroExpectedYieldsZeroPacing(t *testing.T) {
	terms := []domain.ContractTerms{{
		CampaignName:   "A",
		StartDate:      day(2024, 2, 1), // starts after all delivery
		EndDate:        day(2024, 2, 10),
		ImpressionGoal: 1000,
	}}
	delivery := []domain.DeliveryRecord{
		impressionsOn(day(2024, 1, 1), "A", 100),
		impressionsOn(day(2024, 1, 2), "A", 100),
	}

	calc := NewPacingCalculator(testLogger())
	results, _ := calc.ProcessCampaigns(terms, delivery, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].CurrentPacing != 0 {
		t.Fatalf("pacing = %v, want 0 when nothing is expected yet", results[0].CurrentPacing)
	}
	if results[0].DaysIntoCampaign != 0 {
		t.Fatalf("days into campaign = %d, want 0 before start", results[0].DaysIntoCampaign)
	}
}
