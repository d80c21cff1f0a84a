package tracker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/events"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

func day(s string) time.Time {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

// setupTracker builds a tracker over a fresh JSON store with the clock
// pinned to 2025-01-10.
func setupTracker(t *testing.T) (*Tracker, storage.Provider) {
	t.Helper()

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "stride.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	now := func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) }
	cfg := calendar.Default()
	dispatcher := events.NewDispatcher(store, cfg, now, nil)
	return New(store, cfg, dispatcher, now), store
}

func TestCreateHabitDefaults(t *testing.T) {
	tracker, store := setupTracker(t)

	habit, err := tracker.CreateHabit(models.Habit{Title: "Read", Frequency: constants.FrequencyDaily})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if habit.ID == "" {
		t.Error("expected an assigned ID")
	}
	if habit.Type != constants.HabitBuild {
		t.Errorf("expected build type default, got %s", habit.Type)
	}
	if !habit.StartDate.Equal(habit.CreatedAt) {
		t.Errorf("expected start date to default to creation, got %v and %v", habit.StartDate, habit.CreatedAt)
	}

	stored, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("habit not persisted: %v", err)
	}
	if stored.Title != "Read" {
		t.Errorf("unexpected stored habit: %+v", stored)
	}
}

func TestCreateHabitRejectsInvalid(t *testing.T) {
	tracker, _ := setupTracker(t)

	_, err := tracker.CreateHabit(models.Habit{Title: "Gym", Frequency: constants.FrequencyWeekly})
	if err == nil {
		t.Fatal("expected a validation error for a weekly habit without weekdays")
	}
}

func TestToggleHabitTwiceRestoresStreaks(t *testing.T) {
	tracker, store := setupTracker(t)

	habit := models.Habit{
		ID:             "h1",
		Title:          "Read",
		Type:           constants.HabitBuild,
		Frequency:      constants.FrequencyDaily,
		StartDate:      day("2025-01-01"),
		CreatedAt:      day("2025-01-01"),
		CompletedDates: []string{"2025-01-08", "2025-01-09"},
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toggled, err := tracker.ToggleHabit("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toggled.CompletedDates) != 3 || toggled.Streak != 3 {
		t.Errorf("expected 3 marks and streak 3, got %+v", toggled)
	}
	if toggled.LastCompletedAt == nil {
		t.Error("expected LastCompletedAt to be set")
	}

	reverted, err := tracker.ToggleHabit("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reverted.CompletedDates) != 2 || reverted.Streak != 2 {
		t.Errorf("expected the pre-toggle state back, got %+v", reverted)
	}
	if reverted.LastCompletedAt != nil {
		t.Error("expected LastCompletedAt cleared after unmarking")
	}
}

func TestToggleRejectsQuitHabit(t *testing.T) {
	tracker, store := setupTracker(t)

	habit := models.Habit{
		ID:        "q1",
		Title:     "No sugar",
		Type:      constants.HabitQuit,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tracker.ToggleHabit("q1"); err == nil {
		t.Fatal("expected toggling a quit habit to fail")
	}
}

func TestRecordSlipIsIdempotentPerDay(t *testing.T) {
	tracker, store := setupTracker(t)

	habit := models.Habit{
		ID:        "q1",
		Title:     "No sugar",
		Type:      constants.HabitQuit,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tracker.RecordSlip("q1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slipped, err := tracker.RecordSlip("q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slipped.SlipDates) != 1 || slipped.SlipDates[0] != "2025-01-10" {
		t.Errorf("expected a single slip for today, got %v", slipped.SlipDates)
	}
}

func TestLinkAndUnlinkRecomputeGoalMetrics(t *testing.T) {
	tracker, store := setupTracker(t)

	habit := models.Habit{
		ID:        "h1",
		Title:     "Read",
		Type:      constants.HabitBuild,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
		CompletedDates: []string{
			"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05",
		},
	}
	goal := models.Goal{
		ID:         "g1",
		Title:      "Read more",
		Status:     constants.GoalActive,
		TargetDate: day("2025-01-31"),
		CreatedAt:  day("2025-01-01"),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AddGoal(goal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tracker.LinkHabit("g1", "h1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	linked, err := store.GetGoal("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !linked.HasLinkedHabit("h1") {
		t.Errorf("expected the habit in the link set, got %v", linked.LinkedHabitIDs)
	}
	// 5 of 10 required days done as of Jan 10.
	if linked.Progress != 50 || linked.MissedDays != 4 || linked.LongestStreak != 5 {
		t.Errorf("unexpected recomputed metrics: %+v", linked)
	}

	storedHabit, err := store.GetHabit("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedHabit.LinkedGoalID != "g1" {
		t.Errorf("expected the back-link on the habit, got %q", storedHabit.LinkedGoalID)
	}

	if err := tracker.UnlinkHabit("g1", "h1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unlinked, err := store.GetGoal("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unlinked.Progress != 0 || unlinked.MissedDays != 0 || unlinked.LongestStreak != 0 {
		t.Errorf("expected zero metrics with no links, got %+v", unlinked)
	}
	storedHabit, err = store.GetHabit("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedHabit.LinkedGoalID != "" {
		t.Errorf("expected the back-link cleared, got %q", storedHabit.LinkedGoalID)
	}
}

func TestToggleGoalCompletionForceCompletesLinkedHabits(t *testing.T) {
	tracker, store := setupTracker(t)

	build := models.Habit{
		ID:        "h1",
		Title:     "Read",
		Type:      constants.HabitBuild,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}
	quit := models.Habit{
		ID:        "q1",
		Title:     "No sugar",
		Type:      constants.HabitQuit,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
	}
	goal := models.Goal{
		ID:             "g1",
		Title:          "Read more",
		Status:         constants.GoalActive,
		TargetDate:     day("2025-01-31"),
		CreatedAt:      day("2025-01-01"),
		LinkedHabitIDs: []string{"h1", "q1"},
	}
	for _, h := range []models.Habit{build, quit} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := store.AddGoal(goal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed, err := tracker.ToggleGoalCompletion("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != constants.GoalCompleted || completed.CompletedAt == nil {
		t.Errorf("expected a completed goal, got %+v", completed)
	}

	forcedBuild, err := store.GetHabit("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forcedBuild.CompletedDates) != 1 || forcedBuild.CompletedDates[0] != "2025-01-10" {
		t.Errorf("expected today's forced mark, got %v", forcedBuild.CompletedDates)
	}

	untouchedQuit, err := store.GetHabit("q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(untouchedQuit.CompletedDates) != 0 {
		t.Errorf("quit habits must never be force-marked, got %v", untouchedQuit.CompletedDates)
	}

	reopened, err := tracker.ToggleGoalCompletion("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reopened.Status != constants.GoalActive || reopened.CompletedAt != nil {
		t.Errorf("expected the goal reopened, got %+v", reopened)
	}
}

func TestToggleTaskMaintainsCompletionFlag(t *testing.T) {
	tracker, store := setupTracker(t)

	task := models.Task{
		ID:        "t1",
		Title:     "File taxes",
		Recurring: constants.RecurringNone,
		Priority:  constants.PriorityHigh,
		CreatedAt: day("2025-01-10"),
	}
	if err := store.AddTask(task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done, err := tracker.ToggleTask("t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done.IsCompleted || len(done.CompletedDates) != 1 {
		t.Errorf("expected a completed one-off task, got %+v", done)
	}

	undone, err := tracker.ToggleTask("t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undone.IsCompleted || len(undone.CompletedDates) != 0 {
		t.Errorf("expected the flag cleared with the mark, got %+v", undone)
	}
}

func TestEditHabitTriggersRecomputeOnRecurrenceChange(t *testing.T) {
	tracker, store := setupTracker(t)

	habit := models.Habit{
		ID:        "h1",
		Title:     "Gym",
		Type:      constants.HabitBuild,
		Frequency: constants.FrequencyDaily,
		StartDate: day("2025-01-01"),
		CreatedAt: day("2025-01-01"),
		// Mondays only, but marked daily for three days.
		CompletedDates: []string{"2025-01-06", "2025-01-07", "2025-01-08"},
		Streak:         3,
		LongestStreak:  3,
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	habit.Frequency = constants.FrequencyWeekly
	habit.Days = []string{"Monday"}
	edited, err := tracker.EditHabit(habit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Under weekly rules only Jan 6 (a Monday) chains.
	if edited.Streak != 1 || edited.LongestStreak != 1 {
		t.Errorf("expected streaks rebuilt under the new recurrence, got %+v", edited)
	}
}
