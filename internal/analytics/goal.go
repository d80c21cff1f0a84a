package analytics

import (
	"sort"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// BasicGoalReport is the free analytics tier for goals.
type BasicGoalReport struct {
	TotalGoals           int     `json:"total_goals"`
	ActiveGoals          int     `json:"active_goals"`
	CompletedGoals       int     `json:"completed_goals"`
	CancelledGoals       int     `json:"cancelled_goals"`
	AvgProgress          float64 `json:"avg_progress"`
	UpcomingSoon         int     `json:"upcoming_soon"`
	OverdueGoals         int     `json:"overdue_goals"`
	AvgDaysUntilDeadline float64 `json:"avg_days_until_deadline"`
}

// GoalProgressEntry names a goal and its progress percentage.
type GoalProgressEntry struct {
	GoalID   string `json:"goal_id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// ExpiringGoal is an active goal whose deadline falls inside the expiry
// window.
type ExpiringGoal struct {
	GoalID     string `json:"goal_id"`
	Title      string `json:"title"`
	TargetDate string `json:"target_date"`
	DaysLeft   int    `json:"days_left"`
	Progress   int    `json:"progress"`
}

// PremiumGoalReport is the premium analytics tier for goals.
type PremiumGoalReport struct {
	CategoryDist          Distribution        `json:"category_dist"`
	PriorityDist          Distribution        `json:"priority_dist"`
	TopProgressGoals      []GoalProgressEntry `json:"top_progress_goals"`
	CompletionRate        int                 `json:"completion_rate"`
	CompletionTimeline    []DayCount          `json:"completion_timeline"`
	AvgCompletionDays     float64             `json:"avg_completion_days"`
	MedianCompletionDays  float64             `json:"median_completion_days"`
	AvgProgressByCategory map[string]float64  `json:"avg_progress_by_category"`
	AboutToExpire         []ExpiringGoal      `json:"about_to_expire"`
}

// ComputeBasicGoalStats aggregates the free-tier goal report as of "now".
// Deadline averages cover active goals only; overdue active goals pull the
// average negative.
func ComputeBasicGoalStats(goals []models.Goal, cfg calendar.Config, now time.Time) BasicGoalReport {
	report := BasicGoalReport{}
	today := cfg.Today(now)
	soon, _ := calendar.AddDays(today, constants.ExpiryWindowDays)

	progressSum := 0
	deadlineSum := 0
	deadlineCount := 0

	for _, g := range goals {
		report.TotalGoals++
		progressSum += g.Progress

		switch g.Status {
		case constants.GoalCompleted:
			report.CompletedGoals++
			continue
		case constants.GoalCancelled:
			report.CancelledGoals++
			continue
		}
		report.ActiveGoals++

		target := cfg.DayOf(g.TargetDate)
		if target < today {
			report.OverdueGoals++
		} else if target <= soon {
			report.UpcomingSoon++
		}
		if left, err := calendar.DaysBetween(today, target); err == nil {
			deadlineSum += left
			deadlineCount++
		}
	}

	if report.TotalGoals > 0 {
		report.AvgProgress = round2(float64(progressSum) / float64(report.TotalGoals))
	}
	if deadlineCount > 0 {
		report.AvgDaysUntilDeadline = round2(float64(deadlineSum) / float64(deadlineCount))
	}
	return report
}

// ComputePremiumGoalStats aggregates the premium goal report. The completion
// timeline covers the trailing thirty days keyed by each goal's completion
// day; completion-duration stats cover all completed goals regardless of
// window.
func ComputePremiumGoalStats(goals []models.Goal, cfg calendar.Config, now time.Time) (PremiumGoalReport, error) {
	report := PremiumGoalReport{
		CategoryDist:          Distribution{},
		PriorityDist:          Distribution{},
		AvgProgressByCategory: map[string]float64{},
	}

	today := cfg.Today(now)
	timelineStart, err := calendar.AddDays(today, -(constants.CompletionTimelineDays - 1))
	if err != nil {
		return PremiumGoalReport{}, err
	}
	expiry, err := calendar.AddDays(today, constants.ExpiryWindowDays)
	if err != nil {
		return PremiumGoalReport{}, err
	}

	completed := 0
	completionsByDay := map[string]int{}
	var completionDays []float64
	progressByCategory := map[string][]int{}

	for _, g := range goals {
		report.CategoryDist[categoryOf(g.Category)]++
		report.PriorityDist[string(g.Priority)]++
		progressByCategory[categoryOf(g.Category)] = append(progressByCategory[categoryOf(g.Category)], g.Progress)

		if g.Status == constants.GoalCompleted {
			completed++
			if g.CompletedAt != nil {
				day := cfg.DayOf(*g.CompletedAt)
				if day >= timelineStart && day <= today {
					completionsByDay[day]++
				}
				if span, err := calendar.DaysBetween(cfg.DayOf(g.CreatedAt), day); err == nil && span >= 0 {
					completionDays = append(completionDays, float64(span))
				}
			}
			continue
		}

		if g.Status == constants.GoalActive {
			target := cfg.DayOf(g.TargetDate)
			if target >= today && target <= expiry {
				left, err := calendar.DaysBetween(today, target)
				if err != nil {
					return PremiumGoalReport{}, err
				}
				report.AboutToExpire = append(report.AboutToExpire, ExpiringGoal{
					GoalID:     g.ID,
					Title:      g.Title,
					TargetDate: target,
					DaysLeft:   left,
					Progress:   g.Progress,
				})
			}
		}
	}

	report.TopProgressGoals = topProgress(goals, 3)
	report.CompletionRate = roundRatio(completed, len(goals))

	err = calendar.EachDay(timelineStart, today, func(day string) {
		report.CompletionTimeline = append(report.CompletionTimeline, DayCount{Date: day, Count: completionsByDay[day]})
	})
	if err != nil {
		return PremiumGoalReport{}, err
	}

	if len(completionDays) > 0 {
		sum := 0.0
		for _, d := range completionDays {
			sum += d
		}
		report.AvgCompletionDays = round2(sum / float64(len(completionDays)))
		report.MedianCompletionDays = median(completionDays)
	}

	for category, values := range progressByCategory {
		sum := 0
		for _, v := range values {
			sum += v
		}
		report.AvgProgressByCategory[category] = round2(float64(sum) / float64(len(values)))
	}

	sort.Slice(report.AboutToExpire, func(i, j int) bool {
		return report.AboutToExpire[i].TargetDate < report.AboutToExpire[j].TargetDate
	})

	return report, nil
}

func topProgress(goals []models.Goal, n int) []GoalProgressEntry {
	entries := make([]GoalProgressEntry, 0, len(goals))
	for _, g := range goals {
		entries = append(entries, GoalProgressEntry{GoalID: g.ID, Title: g.Title, Progress: g.Progress})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Progress > entries[j].Progress
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// median returns the sorted midpoint, averaging the two middle values for
// even-length input.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return round2((sorted[mid-1] + sorted[mid]) / 2)
}
