package analytics

import (
	"testing"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

func dailyTask(id, start string, marks []string) models.Task {
	return models.Task{
		ID:             id,
		Title:          id,
		Recurring:      constants.RecurringDaily,
		StartTime:      start,
		Priority:       constants.PriorityMedium,
		CompletedDates: marks,
		CreatedAt:      day("2025-01-05"),
	}
}

func TestBasicTaskReport(t *testing.T) {
	now := day("2025-01-10")
	marks := []string{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"}
	tasks := []models.Task{
		dailyTask("t1", "09:00", marks),
		dailyTask("t2", "07:00", marks),
	}

	report := ComputeBasicTaskStats(tasks, calendar.Default(), now)

	if report.TotalTasks != 2 {
		t.Errorf("expected 2 tasks, got %d", report.TotalTasks)
	}
	if report.TodayTasks != 2 || report.TodayCompleted != 0 {
		t.Errorf("unexpected today counts: %+v", report)
	}
	if report.TodayCompletionRate != 0 {
		t.Errorf("expected today rate 0, got %d", report.TodayCompletionRate)
	}
	if report.TotalCompleted != 8 {
		t.Errorf("expected 8 completions, got %d", report.TotalCompleted)
	}
	// 8 done of 12 owed (6 days each since creation).
	if report.TotalCompletionRate != 67 {
		t.Errorf("expected total rate 67, got %d", report.TotalCompletionRate)
	}
	if report.RecurrenceDist["daily"] != 2 {
		t.Errorf("unexpected recurrence distribution: %v", report.RecurrenceDist)
	}
}

func TestBasicTaskReportNonRecurringMirror(t *testing.T) {
	now := day("2025-01-10")
	task := models.Task{
		ID:          "t1",
		Title:       "one-off",
		Recurring:   constants.RecurringNone,
		Priority:    constants.PriorityLow,
		IsCompleted: true,
		CreatedAt:   day("2025-01-10"),
	}

	report := ComputeBasicTaskStats([]models.Task{task}, calendar.Default(), now)

	if report.TodayTasks != 1 || report.TodayCompleted != 1 {
		t.Errorf("expected the flag to count as today's completion: %+v", report)
	}
	if report.TotalCompletionRate != 100 {
		t.Errorf("expected total rate 100, got %d", report.TotalCompletionRate)
	}
}

func TestPremiumTaskTrendAndStreaks(t *testing.T) {
	now := day("2025-01-10")
	marks := []string{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"}
	tasks := []models.Task{
		dailyTask("t1", "09:00", marks),
		dailyTask("t2", "07:00", marks),
	}

	report, err := ComputePremiumTaskStats(tasks, calendar.Default(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.LastNDaysTrend) != constants.TrendWindowDays {
		t.Fatalf("expected %d trend days, got %d", constants.TrendWindowDays, len(report.LastNDaysTrend))
	}
	if report.LastNDaysTrend[0].Date != "2025-01-04" || report.LastNDaysTrend[6].Date != "2025-01-10" {
		t.Errorf("trend not oldest first: %v", report.LastNDaysTrend)
	}
	// Jan 4 predates both tasks.
	if report.LastNDaysTrend[0].Total != 0 {
		t.Errorf("expected no owed tasks before creation, got %d", report.LastNDaysTrend[0].Total)
	}
	if report.LastNDaysTrend[1].Total != 2 || report.LastNDaysTrend[1].Completed != 2 {
		t.Errorf("unexpected Jan 5 point: %+v", report.LastNDaysTrend[1])
	}

	// Four consecutive completion days ending Jan 8.
	if report.LongestStreak != 4 {
		t.Errorf("expected longest streak 4, got %d", report.LongestStreak)
	}

	// 10 owed before today, 8 done.
	if report.MissedDoneRatio != 0.25 {
		t.Errorf("expected missed/done ratio 0.25, got %v", report.MissedDoneRatio)
	}
}

func TestMostProductiveDayTieBreaksEarliest(t *testing.T) {
	// One completion per weekday Sunday through Wednesday; Sunday wins.
	marks := []string{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"}
	tasks := []models.Task{dailyTask("t1", "09:00", marks)}

	report, err := ComputePremiumTaskStats(tasks, calendar.Default(), day("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.MostProductiveDay != "Sunday" {
		t.Errorf("expected Sunday on a tie, got %q", report.MostProductiveDay)
	}
}

func TestMostProductiveHourTieBreaksSmallest(t *testing.T) {
	marks := []string{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"}
	tasks := []models.Task{
		dailyTask("t1", "09:00", marks),
		dailyTask("t2", "07:00", marks),
	}

	report, err := ComputePremiumTaskStats(tasks, calendar.Default(), day("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.MostProductiveHour != 7 {
		t.Errorf("expected hour 7 on a tie, got %d", report.MostProductiveHour)
	}
}

func TestMostProductiveHourWithNoSchedule(t *testing.T) {
	task := dailyTask("t1", "", []string{"2025-01-05"})

	report, err := ComputePremiumTaskStats([]models.Task{task}, calendar.Default(), day("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.MostProductiveHour != -1 {
		t.Errorf("expected -1 with no scheduled hours, got %d", report.MostProductiveHour)
	}
}

func TestPremiumTaskRatesByGroup(t *testing.T) {
	marks := []string{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"}
	t1 := dailyTask("t1", "09:00", marks)
	t1.Category = "Work"
	t1.Priority = constants.PriorityHigh
	t2 := dailyTask("t2", "07:00", nil)
	t2.Category = "Home"

	report, err := ComputePremiumTaskStats([]models.Task{t1, t2}, calendar.Default(), day("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Work: 4 of 6 owed days done.
	if report.CompletionRateByCategory["Work"] != 67 {
		t.Errorf("expected Work rate 67, got %d", report.CompletionRateByCategory["Work"])
	}
	if report.CompletionRateByCategory["Home"] != 0 {
		t.Errorf("expected Home rate 0, got %d", report.CompletionRateByCategory["Home"])
	}
	if report.CompletionRateByPriority["high"] != 67 {
		t.Errorf("expected high rate 67, got %d", report.CompletionRateByPriority["high"])
	}
}
