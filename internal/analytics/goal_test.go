package analytics

import (
	"testing"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

func activeGoal(id string, progress int, target string) models.Goal {
	return models.Goal{
		ID:         id,
		Title:      id,
		Status:     constants.GoalActive,
		Progress:   progress,
		Priority:   constants.PriorityMedium,
		TargetDate: day(target),
		CreatedAt:  day("2025-01-01"),
	}
}

func completedGoal(id string, created, completed string) models.Goal {
	done := day(completed)
	return models.Goal{
		ID:          id,
		Title:       id,
		Status:      constants.GoalCompleted,
		Progress:    100,
		Priority:    constants.PriorityMedium,
		TargetDate:  day("2025-06-01"),
		CreatedAt:   day(created),
		CompletedAt: &done,
	}
}

func TestBasicGoalReport(t *testing.T) {
	now := day("2025-01-10")
	goals := []models.Goal{
		activeGoal("g1", 40, "2025-01-14"),
		activeGoal("g2", 20, "2025-01-05"),
		completedGoal("g3", "2025-01-01", "2025-01-08"),
		{ID: "g4", Status: constants.GoalCancelled, Progress: 10, TargetDate: day("2025-03-01")},
	}

	report := ComputeBasicGoalStats(goals, calendar.Default(), now)

	if report.TotalGoals != 4 || report.ActiveGoals != 2 || report.CompletedGoals != 1 || report.CancelledGoals != 1 {
		t.Errorf("unexpected status counts: %+v", report)
	}
	if report.AvgProgress != 42.5 {
		t.Errorf("expected avg progress 42.5, got %v", report.AvgProgress)
	}
	if report.UpcomingSoon != 1 {
		t.Errorf("expected 1 goal due soon, got %d", report.UpcomingSoon)
	}
	if report.OverdueGoals != 1 {
		t.Errorf("expected 1 overdue goal, got %d", report.OverdueGoals)
	}
	// Active goals only: 4 days left and 5 days overdue.
	if report.AvgDaysUntilDeadline != -0.5 {
		t.Errorf("expected avg deadline -0.5, got %v", report.AvgDaysUntilDeadline)
	}
}

func TestPremiumGoalReport(t *testing.T) {
	now := day("2025-01-10")
	g1 := activeGoal("g1", 40, "2025-01-14")
	g1.Category = "Health"
	goals := []models.Goal{
		g1,
		activeGoal("g2", 20, "2025-01-05"),
		completedGoal("g3", "2025-01-01", "2025-01-08"),
		activeGoal("g6", 70, "2025-01-12"),
	}

	report, err := ComputePremiumGoalStats(goals, calendar.Default(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.TopProgressGoals) != 3 {
		t.Fatalf("expected top 3 goals, got %d", len(report.TopProgressGoals))
	}
	want := []int{100, 70, 40}
	for i, entry := range report.TopProgressGoals {
		if entry.Progress != want[i] {
			t.Errorf("expected progress %d at position %d, got %d", want[i], i, entry.Progress)
		}
	}

	if report.CompletionRate != 25 {
		t.Errorf("expected completion rate 25, got %d", report.CompletionRate)
	}

	if len(report.CompletionTimeline) != constants.CompletionTimelineDays {
		t.Fatalf("expected %d timeline days, got %d", constants.CompletionTimelineDays, len(report.CompletionTimeline))
	}
	last := report.CompletionTimeline[len(report.CompletionTimeline)-1]
	if last.Date != "2025-01-10" {
		t.Errorf("expected timeline to end today, got %s", last.Date)
	}
	for _, point := range report.CompletionTimeline {
		if point.Date == "2025-01-08" && point.Count != 1 {
			t.Errorf("expected 1 completion on Jan 8, got %d", point.Count)
		}
	}

	if report.AvgCompletionDays != 7 {
		t.Errorf("expected avg completion days 7, got %v", report.AvgCompletionDays)
	}

	if report.AvgProgressByCategory["Health"] != 40 {
		t.Errorf("expected Health avg 40, got %v", report.AvgProgressByCategory["Health"])
	}
	if got := report.AvgProgressByCategory[constants.DefaultCategory]; got != 63.33 {
		t.Errorf("expected %s avg 63.33, got %v", constants.DefaultCategory, got)
	}

	// Overdue g2 is excluded; the rest sort by target date.
	if len(report.AboutToExpire) != 2 {
		t.Fatalf("expected 2 expiring goals, got %+v", report.AboutToExpire)
	}
	if report.AboutToExpire[0].GoalID != "g6" || report.AboutToExpire[0].DaysLeft != 2 {
		t.Errorf("unexpected first expiring goal: %+v", report.AboutToExpire[0])
	}
	if report.AboutToExpire[1].GoalID != "g1" || report.AboutToExpire[1].DaysLeft != 4 {
		t.Errorf("unexpected second expiring goal: %+v", report.AboutToExpire[1])
	}
}

func TestGoalCompletionSpansIgnoreNegatives(t *testing.T) {
	// CompletedAt predates CreatedAt; the span is dropped from the averages.
	bad := completedGoal("g1", "2025-01-08", "2025-01-02")
	good := completedGoal("g2", "2025-01-01", "2025-01-05")

	report, err := ComputePremiumGoalStats([]models.Goal{bad, good}, calendar.Default(), day("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.AvgCompletionDays != 4 || report.MedianCompletionDays != 4 {
		t.Errorf("expected both duration stats 4, got avg %v median %v",
			report.AvgCompletionDays, report.MedianCompletionDays)
	}
}

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("expected odd-length median 2, got %v", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("expected even-length median 2.5, got %v", got)
	}
}

func TestExpiringGoalBoundaries(t *testing.T) {
	now := day("2025-01-10")
	goals := []models.Goal{
		activeGoal("today", 0, "2025-01-10"),
		activeGoal("edge", 0, "2025-01-17"),
		activeGoal("beyond", 0, "2025-01-18"),
	}

	report, err := ComputePremiumGoalStats(goals, calendar.Default(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.AboutToExpire) != 2 {
		t.Fatalf("expected the window to be inclusive of both ends, got %+v", report.AboutToExpire)
	}
	if report.AboutToExpire[0].GoalID != "today" || report.AboutToExpire[1].GoalID != "edge" {
		t.Errorf("unexpected expiring set: %+v", report.AboutToExpire)
	}
}
