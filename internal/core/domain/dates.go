package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted input forms, tried in order. Upstream
// systems export both ISO dates and US-style short dates ("1/2/24").
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"01/02/2006",
	"01-02-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses a date string in any supported layout and normalises
// the result to midnight UTC. An empty or unrecognised value returns an
// error; callers at batch boundaries skip the row rather than abort.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return DateOnly(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", value)
}

// DateOnly strips the time-of-day component, leaving midnight UTC.
func DateOnly(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight at the beginning of the value's calendar day.
func StartOfDay(value time.Time) time.Time {
	return DateOnly(value)
}

// EndOfDay returns the last representable instant of the value's calendar day.
func EndOfDay(value time.Time) time.Time {
	return DateOnly(value).Add(24*time.Hour - time.Nanosecond)
}

// DaysBetween counts whole calendar days from a to b. It is negative when
// b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// FormatDate renders a date in canonical ISO form, or "" for the zero value.
func FormatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format("2006-01-02")
}

// CompleteDateRange produces every calendar day between the earliest and
// latest valid dates among the given records, inclusive. Records with a
// zero date are ignored. An empty or all-invalid input yields nil.
func CompleteDateRange(records []DeliveryRecord) []time.Time {
	var minDate, maxDate time.Time
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		day := DateOnly(rec.Date)
		if minDate.IsZero() || day.Before(minDate) {
			minDate = day
		}
		if maxDate.IsZero() || day.After(maxDate) {
			maxDate = day
		}
	}
	if minDate.IsZero() {
		return nil
	}
	var days []time.Time
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
