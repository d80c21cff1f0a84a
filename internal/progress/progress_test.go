package progress

import (
	"testing"
	"time"

	"github.com/strideapp/stride/internal/calendar"
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

func dailyHabit(id string, marks []string) models.Habit {
	return models.Habit{
		ID:             id,
		Type:           constants.HabitBuild,
		Frequency:      constants.FrequencyDaily,
		StartDate:      day("2025-01-01"),
		CreatedAt:      day("2025-01-01"),
		CompletedDates: marks,
	}
}

func testGoal() models.Goal {
	return models.Goal{
		ID:         "goal-1",
		TargetDate: day("2025-01-31"),
		Status:     constants.GoalActive,
	}
}

func TestNoLinkedHabitsYieldsZeroMetrics(t *testing.T) {
	metrics, err := RecomputeGoal(testGoal(), nil, "2025-01-10", calendar.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics != (models.GoalMetrics{}) {
		t.Errorf("expected zero metrics, got %+v", metrics)
	}
}

func TestHalfDoneWindow(t *testing.T) {
	habit := dailyHabit("h1", []string{
		"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05",
	})

	metrics, err := RecomputeGoal(testGoal(), []models.Habit{habit}, "2025-01-10", calendar.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5 of 10 required days done.
	if metrics.Progress != 50 {
		t.Errorf("expected progress 50, got %d", metrics.Progress)
	}
	// Days 6-9 are past and unmet; day 10 is still pending.
	if metrics.MissedDays != 4 {
		t.Errorf("expected 4 missed days, got %d", metrics.MissedDays)
	}
	if metrics.CurrentStreak != 0 {
		t.Errorf("expected current streak 0 after misses, got %d", metrics.CurrentStreak)
	}
	if metrics.LongestStreak != 5 {
		t.Errorf("expected longest streak 5, got %d", metrics.LongestStreak)
	}
}

func TestIncompleteTodayDoesNotBreakStreak(t *testing.T) {
	habit := dailyHabit("h1", []string{
		"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05",
	})

	metrics, err := RecomputeGoal(testGoal(), []models.Habit{habit}, "2025-01-06", calendar.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.MissedDays != 0 {
		t.Errorf("expected no missed days while today is pending, got %d", metrics.MissedDays)
	}
	if metrics.CurrentStreak != 5 {
		t.Errorf("expected current streak 5, got %d", metrics.CurrentStreak)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	habit := dailyHabit("h1", []string{"2025-01-01", "2025-01-03"})
	goal := testGoal()
	cfg := calendar.Default()

	first, err := RecomputeGoal(goal, []models.Habit{habit}, "2025-01-05", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := RecomputeGoal(goal, []models.Habit{habit}, "2025-01-05", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical metrics, got %+v and %+v", first, second)
	}
}

func TestQuitHabitInversion(t *testing.T) {
	habit := models.Habit{
		ID:        "h1",
		Type:      constants.HabitQuit,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
		SlipDates: []string{"2025-01-03"},
	}

	metrics, err := RecomputeGoal(testGoal(), []models.Habit{habit}, "2025-01-05", calendar.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 4 clean days of 5.
	if metrics.Progress != 80 {
		t.Errorf("expected progress 80, got %d", metrics.Progress)
	}
	if metrics.MissedDays != 1 {
		t.Errorf("expected 1 missed day, got %d", metrics.MissedDays)
	}
	if metrics.CurrentStreak != 2 {
		t.Errorf("expected current streak 2 (the clean days after the slip), got %d", metrics.CurrentStreak)
	}
}

func TestDayRequiresAllHabits(t *testing.T) {
	done := dailyHabit("h1", []string{"2025-01-01"})
	undone := dailyHabit("h2", nil)

	metrics, err := RecomputeGoal(testGoal(), []models.Habit{done, undone}, "2025-01-02", calendar.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Day 1 had one of two habits done: missed, not streaked.
	if metrics.MissedDays != 1 {
		t.Errorf("expected 1 missed day, got %d", metrics.MissedDays)
	}
	if metrics.CurrentStreak != 0 {
		t.Errorf("expected current streak 0, got %d", metrics.CurrentStreak)
	}
}

func TestWindowClampsToTargetDate(t *testing.T) {
	habit := dailyHabit("h1", []string{"2025-01-30", "2025-01-31", "2025-02-01"})
	goal := testGoal() // target 2025-01-31

	metrics, err := RecomputeGoal(goal, []models.Habit{habit}, "2025-02-10", calendar.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Expected window ends at the target date: 31 days, 2 done.
	want := 6 // round(2/31*100)
	if metrics.Progress != want {
		t.Errorf("expected progress %d, got %d", want, metrics.Progress)
	}
}

func TestExpectedCompletionsAndDoneDays(t *testing.T) {
	cfg := calendar.Default()
	habit := dailyHabit("h1", []string{"2025-01-01", "2025-01-04", "2025-02-01"})

	expected, err := ExpectedCompletions(habit, "2025-01-05", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expected != 5 {
		t.Errorf("expected 5 occurrences, got %d", expected)
	}

	done, err := DoneDays(habit, "2025-01-05", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(done) != 2 {
		t.Errorf("expected 2 done days before the cutoff, got %d", len(done))
	}
	if _, ok := done["2025-02-01"]; ok {
		t.Error("done days should exclude marks after the cutoff")
	}
}
