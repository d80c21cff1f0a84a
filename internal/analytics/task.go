package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/streak"
)

// BasicTaskReport is the free analytics tier for tasks.
type BasicTaskReport struct {
	TodayTasks          int          `json:"today_tasks"`
	TodayCompleted      int          `json:"today_completed"`
	TodayCompletionRate int          `json:"today_completion_rate"`
	TotalTasks          int          `json:"total_tasks"`
	TotalCompleted      int          `json:"total_completed"`
	TotalCompletionRate int          `json:"total_completion_rate"`
	CategoryDist        Distribution `json:"category_dist"`
	PriorityDist        Distribution `json:"priority_dist"`
	RecurrenceDist      Distribution `json:"recurrence_dist"`
}

// PremiumTaskReport is the premium analytics tier for tasks.
type PremiumTaskReport struct {
	LastNDaysTrend           []TrendPoint          `json:"last_n_days_trend"`
	MostProductiveDay        string                `json:"most_productive_day"`
	MostProductiveHour       int                   `json:"most_productive_hour"`
	MissedDoneRatio          float64               `json:"missed_done_ratio"`
	CurrentStreak            int                   `json:"current_streak"`
	LongestStreak            int                   `json:"longest_streak"`
	CompletionTimeline       []DayCount            `json:"completion_timeline"`
	CategoryOverTime         map[string][]DayCount `json:"category_over_time"`
	AvgTasksPerDay           float64               `json:"avg_tasks_per_day"`
	AvgCompletionRate        float64               `json:"avg_completion_rate"`
	CompletionRateByCategory map[string]int        `json:"completion_rate_by_category"`
	CompletionRateByPriority map[string]int        `json:"completion_rate_by_priority"`
}

// ComputeBasicTaskStats aggregates the free-tier task report as of "now".
func ComputeBasicTaskStats(tasks []models.Task, cfg calendar.Config, now time.Time) BasicTaskReport {
	report := BasicTaskReport{
		CategoryDist:   Distribution{},
		PriorityDist:   Distribution{},
		RecurrenceDist: Distribution{},
	}

	today := cfg.Today(now)
	totalExpected := 0
	totalDone := 0

	for _, t := range tasks {
		report.TotalTasks++
		report.CategoryDist[categoryOf(t.Category)]++
		report.PriorityDist[string(t.Priority)]++
		report.RecurrenceDist[string(t.Recurring)]++

		created := cfg.DayOf(t.CreatedAt)
		if taskRequiredOn(t, today, created) {
			report.TodayTasks++
			if t.CompletedOn(today, created) {
				report.TodayCompleted++
			}
		}

		expected := taskExpectedDays(t, created, today)
		done := taskDoneDays(t, created, today)
		totalExpected += len(expected)
		totalDone += len(done)
		report.TotalCompleted += len(done)
	}

	report.TodayCompletionRate = roundRatio(report.TodayCompleted, report.TodayTasks)
	report.TotalCompletionRate = roundRatio(totalDone, totalExpected)
	return report
}

// ComputePremiumTaskStats aggregates the premium task report. The trailing
// trend covers the last seven days, the completion timeline the last thirty,
// both ending today and ordered oldest first.
func ComputePremiumTaskStats(tasks []models.Task, cfg calendar.Config, now time.Time) (PremiumTaskReport, error) {
	report := PremiumTaskReport{
		CategoryOverTime:         map[string][]DayCount{},
		CompletionRateByCategory: map[string]int{},
		CompletionRateByPriority: map[string]int{},
	}

	today := cfg.Today(now)

	trendStart, err := calendar.AddDays(today, -(constants.TrendWindowDays - 1))
	if err != nil {
		return PremiumTaskReport{}, err
	}
	timelineStart, err := calendar.AddDays(today, -(constants.CompletionTimelineDays - 1))
	if err != nil {
		return PremiumTaskReport{}, err
	}

	report.LastNDaysTrend, err = taskTrend(tasks, cfg, trendStart, today)
	if err != nil {
		return PremiumTaskReport{}, err
	}

	report.MostProductiveDay = mostProductiveDay(tasks, cfg, today)
	report.MostProductiveHour = mostProductiveHour(tasks)

	totalExpectedPast := 0
	totalDone := 0
	allDoneDays := map[string]struct{}{}
	for _, t := range tasks {
		created := cfg.DayOf(t.CreatedAt)
		yesterday, err := calendar.AddDays(today, -1)
		if err != nil {
			return PremiumTaskReport{}, err
		}
		expected := taskExpectedDays(t, created, yesterday)
		done := taskDoneDays(t, created, today)
		totalExpectedPast += len(expected)
		totalDone += len(done)
		for day := range done {
			allDoneDays[day] = struct{}{}
		}
	}
	missed := totalExpectedPast - totalDone
	if missed < 0 {
		missed = 0
	}
	if totalDone > 0 {
		report.MissedDoneRatio = round2(float64(missed) / float64(totalDone))
	}

	marks := make([]string, 0, len(allDoneDays))
	for day := range allDoneDays {
		marks = append(marks, day)
	}
	streaks := streak.Compute(marks, constants.FrequencyDaily, nil)
	report.CurrentStreak = streaks.Current
	report.LongestStreak = streaks.Longest

	report.CompletionTimeline, err = taskCompletionTimeline(tasks, cfg, timelineStart, today)
	if err != nil {
		return PremiumTaskReport{}, err
	}

	report.CategoryOverTime, err = categoryOverTime(tasks, cfg, timelineStart, today)
	if err != nil {
		return PremiumTaskReport{}, err
	}

	totalCompletions := 0
	for _, point := range report.CompletionTimeline {
		totalCompletions += point.Count
	}
	report.AvgTasksPerDay = round2(float64(totalCompletions) / float64(constants.CompletionTimelineDays))

	rateSum := 0.0
	for _, point := range report.LastNDaysTrend {
		rateSum += ratio(point.Completed, point.Total)
	}
	report.AvgCompletionRate = round2(rateSum / float64(len(report.LastNDaysTrend)))

	report.CompletionRateByCategory = completionRateBy(tasks, cfg, today, func(t models.Task) string {
		return categoryOf(t.Category)
	})
	report.CompletionRateByPriority = completionRateBy(tasks, cfg, today, func(t models.Task) string {
		return string(t.Priority)
	})

	return report, nil
}

// taskRequiredOn reports whether a task owes a completion on the given day.
// Days before creation are never owed; a non-recurring task is owed only on
// its creation day.
func taskRequiredOn(t models.Task, day, createdDay string) bool {
	if day < createdDay {
		return false
	}
	switch t.Recurring {
	case constants.RecurringNone:
		return day == createdDay
	case constants.RecurringDaily:
		return true
	case constants.RecurringWeekly:
		name, err := calendar.WeekdayName(day)
		return err == nil && t.HasDay(name)
	case constants.RecurringMonthly:
		d, err := calendar.ParseDay(day)
		if err != nil {
			return false
		}
		anchor, err := calendar.ParseDay(createdDay)
		if err != nil {
			return false
		}
		return d.Day() == anchor.Day()
	default:
		return false
	}
}

func taskExpectedDays(t models.Task, createdDay, through string) []string {
	var days []string
	_ = calendar.EachDay(createdDay, through, func(day string) {
		if taskRequiredOn(t, day, createdDay) {
			days = append(days, day)
		}
	})
	return days
}

func taskDoneDays(t models.Task, createdDay, through string) map[string]struct{} {
	done := make(map[string]struct{})
	for _, d := range t.CompletedDates {
		if d <= through {
			done[d] = struct{}{}
		}
	}
	if t.Recurring == constants.RecurringNone && t.IsCompleted && createdDay <= through {
		done[createdDay] = struct{}{}
	}
	return done
}

func taskTrend(tasks []models.Task, cfg calendar.Config, from, to string) ([]TrendPoint, error) {
	var trend []TrendPoint
	err := calendar.EachDay(from, to, func(day string) {
		point := TrendPoint{Date: day}
		for _, t := range tasks {
			created := cfg.DayOf(t.CreatedAt)
			if !taskRequiredOn(t, day, created) {
				continue
			}
			point.Total++
			if t.CompletedOn(day, created) {
				point.Completed++
			}
		}
		trend = append(trend, point)
	})
	if err != nil {
		return nil, err
	}
	return trend, nil
}

// mostProductiveDay returns the weekday with strictly the most completions,
// scanning Sunday through Saturday so earlier weekdays win ties.
func mostProductiveDay(tasks []models.Task, cfg calendar.Config, through string) string {
	byWeekday := map[string]int{}
	for _, t := range tasks {
		created := cfg.DayOf(t.CreatedAt)
		for day := range taskDoneDays(t, created, through) {
			name, err := calendar.WeekdayName(day)
			if err != nil {
				continue
			}
			byWeekday[name]++
		}
	}

	best := ""
	bestCount := 0
	for _, name := range constants.WeekdayNames {
		if byWeekday[name] > bestCount {
			best = name
			bestCount = byWeekday[name]
		}
	}
	return best
}

// mostProductiveHour buckets completions by each task's scheduled start
// hour. The smallest hour wins ties; -1 when nothing is scheduled.
func mostProductiveHour(tasks []models.Task) int {
	byHour := map[int]int{}
	for _, t := range tasks {
		hour, ok := parseHour(t.StartTime)
		if !ok {
			continue
		}
		byHour[hour] += len(t.CompletedDates)
	}

	best := -1
	bestCount := 0
	for hour := 0; hour < 24; hour++ {
		if byHour[hour] > bestCount {
			best = hour
			bestCount = byHour[hour]
		}
	}
	return best
}

func parseHour(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

func taskCompletionTimeline(tasks []models.Task, cfg calendar.Config, from, to string) ([]DayCount, error) {
	counts := map[string]int{}
	for _, t := range tasks {
		created := cfg.DayOf(t.CreatedAt)
		for day := range taskDoneDays(t, created, to) {
			if day >= from {
				counts[day]++
			}
		}
	}

	var timeline []DayCount
	err := calendar.EachDay(from, to, func(day string) {
		timeline = append(timeline, DayCount{Date: day, Count: counts[day]})
	})
	if err != nil {
		return nil, err
	}
	return timeline, nil
}

func categoryOverTime(tasks []models.Task, cfg calendar.Config, from, to string) (map[string][]DayCount, error) {
	byCategory := map[string]map[string]int{}
	for _, t := range tasks {
		key := categoryOf(t.Category)
		if byCategory[key] == nil {
			byCategory[key] = map[string]int{}
		}
		created := cfg.DayOf(t.CreatedAt)
		for day := range taskDoneDays(t, created, to) {
			if day >= from {
				byCategory[key][day]++
			}
		}
	}

	keys := make([]string, 0, len(byCategory))
	for key := range byCategory {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string][]DayCount, len(keys))
	for _, key := range keys {
		counts := byCategory[key]
		var series []DayCount
		err := calendar.EachDay(from, to, func(day string) {
			series = append(series, DayCount{Date: day, Count: counts[day]})
		})
		if err != nil {
			return nil, err
		}
		out[key] = series
	}
	return out, nil
}

func completionRateBy(tasks []models.Task, cfg calendar.Config, through string, keyOf func(models.Task) string) map[string]int {
	type counts struct {
		expected int
		done     int
	}
	byKey := map[string]*counts{}
	for _, t := range tasks {
		key := keyOf(t)
		c := byKey[key]
		if c == nil {
			c = &counts{}
			byKey[key] = c
		}
		created := cfg.DayOf(t.CreatedAt)
		c.expected += len(taskExpectedDays(t, created, through))
		c.done += len(taskDoneDays(t, created, through))
	}

	rates := make(map[string]int, len(byKey))
	for key, c := range byKey {
		rates[key] = roundRatio(c.done, c.expected)
	}
	return rates
}
