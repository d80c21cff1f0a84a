package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDailyOccurrenceCount(t *testing.T) {
	cfg := Default()
	habit := models.Habit{
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}

	required, err := cfg.ExpectedOccurrences(habit, "2025-01-01", "2025-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Inclusive window: 10 days.
	if len(required) != 10 {
		t.Errorf("expected 10 occurrences, got %d", len(required))
	}
	if required[0] != "2025-01-01" || required[9] != "2025-01-10" {
		t.Errorf("unexpected bounds: %s .. %s", required[0], required[len(required)-1])
	}
}

func TestWeeklyOccurrencesMatchWeekdaySet(t *testing.T) {
	cfg := Default()
	habit := models.Habit{
		Frequency: constants.FrequencyWeekly,
		Days:      []string{"Monday", "Thursday"},
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}

	required, err := cfg.ExpectedOccurrences(habit, "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(required) == 0 {
		t.Fatal("expected occurrences, got none")
	}
	for _, d := range required {
		name, err := WeekdayName(d)
		if err != nil {
			t.Fatalf("invalid date %q: %v", d, err)
		}
		if name != "Monday" && name != "Thursday" {
			t.Errorf("occurrence %s falls on %s, not in weekday set", d, name)
		}
	}
}

func TestMonthlySkipsShortMonths(t *testing.T) {
	cfg := Default()
	habit := models.Habit{
		Frequency: constants.FrequencyMonthly,
		StartDate: day("2025-01-31"),
		CreatedAt: day("2025-01-31"),
	}

	required, err := cfg.ExpectedOccurrences(habit, "2025-01-01", "2025-04-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2025-01-31", "2025-03-31"}
	if len(required) != len(want) {
		t.Fatalf("expected %v, got %v", want, required)
	}
	for i := range want {
		if required[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, required[i])
		}
	}
}

func TestEffectiveStartUsesLaterOfStartAndCreation(t *testing.T) {
	cfg := Default()
	habit := models.Habit{
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-05"),
	}

	if got := cfg.EffectiveStart(habit); got != "2025-01-05" {
		t.Errorf("expected effective start 2025-01-05, got %s", got)
	}

	required, err := cfg.ExpectedOccurrences(habit, "2025-01-01", "2025-01-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(required) != 3 {
		t.Errorf("expected 3 occurrences after effective start, got %d", len(required))
	}
}

func TestWindowBeforeStartIsEmpty(t *testing.T) {
	cfg := Default()
	habit := models.Habit{
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-06-01"),
		CreatedAt: day("2025-06-01"),
	}

	required, err := cfg.ExpectedOccurrences(habit, "2025-01-01", "2025-05-31")
	if err != nil {
		t.Fatalf("expected nil error for empty window, got %v", err)
	}
	if len(required) != 0 {
		t.Errorf("expected no occurrences, got %v", required)
	}
}

func TestUnknownFrequencyErrors(t *testing.T) {
	cfg := Default()
	habit := models.Habit{
		Frequency: constants.Frequency("fortnightly"),
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}

	_, err := cfg.ExpectedOccurrences(habit, "2025-01-01", "2025-01-31")
	if !errors.Is(err, ErrInvalidRecurrence) {
		t.Errorf("expected ErrInvalidRecurrence, got %v", err)
	}
}

func TestDayOfUsesConfiguredTimezone(t *testing.T) {
	cfg, err := Load("America/New_York")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	// 02:00 UTC on Jan 2 is still Jan 1 in New York.
	ts := time.Date(2025, 1, 2, 2, 0, 0, 0, time.UTC)
	if got := cfg.DayOf(ts); got != "2025-01-01" {
		t.Errorf("expected 2025-01-01, got %s", got)
	}
	if got := Default().DayOf(ts); got != "2025-01-02" {
		t.Errorf("expected 2025-01-02 in UTC, got %s", got)
	}
}

func TestDayHelpers(t *testing.T) {
	next, err := AddDays("2025-02-28", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != "2025-03-01" {
		t.Errorf("expected 2025-03-01, got %s", next)
	}

	n, err := DaysBetween("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 30 {
		t.Errorf("expected 30 days, got %d", n)
	}

	var days []string
	if err := EachDay("2025-01-30", "2025-02-02", func(d string) { days = append(days, d) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 4 || days[0] != "2025-01-30" || days[3] != "2025-02-02" {
		t.Errorf("unexpected iteration: %v", days)
	}

	if err := EachDay("2025-02-02", "2025-01-30", func(string) { t.Error("fn called for inverted window") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
