package domain

import (
	"testing"
	"time"
)

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"2024-01-02", "2024/01/02", "1/2/2024", "1/2/24", "01/02/2024", "2024-01-02T08:30:00"} {
		got, err := ParseDate(input)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "not-a-date", "13/45/2024"} {
		if _, err := ParseDate(input); err == nil {
			t.Fatalf("ParseDate(%q) succeeded, want error", input)
		}
	}
}

func TestDayBoundaries(t *testing.T) {
	value := time.Date(2024, 3, 15, 13, 45, 12, 0, time.UTC)
	if got := StartOfDay(value); got.Hour() != 0 || got.Day() != 15 {
		t.Fatalf("StartOfDay = %v", got)
	}
	end := EndOfDay(value)
	if end.Day() != 15 || end.Hour() != 23 || end.Minute() != 59 {
		t.Fatalf("EndOfDay = %v", end)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 9 {
		t.Fatalf("DaysBetween = %d, want 9", got)
	}
	if got := DaysBetween(b, a); got != -9 {
		t.Fatalf("reverse DaysBetween = %d, want -9", got)
	}
}

func TestCompleteDateRange(t *testing.T) {
	records := []DeliveryRecord{
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{}, // zero date, ignored
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	days := CompleteDateRange(records)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	if !days[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first day = %v", days[0])
	}
	if !days[4].Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last day = %v", days[4])
	}
}

func TestCompleteDateRangeEmpty(t *testing.T) {
	if days := CompleteDateRange(nil); days != nil {
		t.Fatalf("expected nil for empty input, got %v", days)
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"$12,500.00", 12500},
		{"1000", 1000},
		{" $3.50 ", 3.5},
		{"", 0},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.input)
		if err != nil {
			t.Fatalf("ParseMoney(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMoney(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
	if _, err := ParseMoney("twelve"); err == nil {
		t.Fatal("ParseMoney accepted non-numeric input")
	}
}
