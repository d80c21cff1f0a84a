package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/progress"
)

// BasicHabitReport is the free analytics tier for habits.
type BasicHabitReport struct {
	TotalHabits    int          `json:"total_habits"`
	ActiveHabits   int          `json:"active_habits"`
	ArchivedHabits int          `json:"archived_habits"`
	TotalCompleted int          `json:"total_completed"`
	AvgStreak      float64      `json:"avg_streak"`
	CategoryDist   Distribution `json:"category_dist"`
	FrequencyDist  Distribution `json:"frequency_dist"`
}

// HabitStreakEntry names a habit and its longest streak.
type HabitStreakEntry struct {
	HabitID       string `json:"habit_id"`
	Title         string `json:"title"`
	LongestStreak int    `json:"longest_streak"`
}

// HabitDetail summarizes one habit's obligation and completion counts
// within the report window.
type HabitDetail struct {
	HabitID        string              `json:"habit_id"`
	Title          string              `json:"title"`
	Category       string              `json:"category"`
	Frequency      constants.Frequency `json:"frequency"`
	RequiredCount  int                 `json:"required_count"`
	DoneCount      int                 `json:"done_count"`
	RemainingCount int                 `json:"remaining_count"`
	CompletedDates []string            `json:"completed_dates"`
	MissedDates    []string            `json:"missed_dates"`
	Streak         int                 `json:"streak"`
	LongestStreak  int                 `json:"longest_streak"`
}

// GroupDetail aggregates done-vs-expected counts for one category or
// frequency bucket.
type GroupDetail struct {
	Key            string `json:"key"`
	TotalHabits    int    `json:"total_habits"`
	TotalDone      int    `json:"total_done"`
	TotalExpected  int    `json:"total_expected"`
	CompletionRate int    `json:"completion_rate"`
}

// DayCount is one day of the daily completion trend.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StreakPoint is a habit's running streak after a completion mark.
type StreakPoint struct {
	Date   string `json:"date"`
	Streak int    `json:"streak"`
}

// StreakTimeline tracks a habit's streak growth over the window.
type StreakTimeline struct {
	HabitID  string        `json:"habit_id"`
	Timeline []StreakPoint `json:"timeline"`
}

// HeatmapCell marks whether a required day was completed.
type HeatmapCell struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// HabitHeatmap is a habit's required-day completion grid.
type HabitHeatmap struct {
	HabitID string        `json:"habit_id"`
	Cells   []HeatmapCell `json:"cells"`
}

// ConsistencyScore is the stddev of gaps between consecutive completion
// marks. Nil for habits where the score is undefined (non-daily frequency
// or quit type); 0 for daily habits with fewer than two marks.
type ConsistencyScore struct {
	HabitID string   `json:"habit_id"`
	Score   *float64 `json:"score"`
}

// PremiumHabitReport is the premium analytics tier for habits.
type PremiumHabitReport struct {
	FrequencyDist     Distribution       `json:"frequency_dist"`
	TopStreaks        []HabitStreakEntry `json:"top_streaks"`
	CompletionRate    int                `json:"completion_rate"`
	TotalRemaining    int                `json:"total_remaining"`
	HabitDetails      []HabitDetail      `json:"habit_details"`
	CategoryDetailed  []GroupDetail      `json:"category_detailed"`
	FrequencyDetailed []GroupDetail      `json:"frequency_detailed"`
	DailyTrend        []DayCount         `json:"daily_trend"`
	StreakTimelines   []StreakTimeline   `json:"streak_timelines"`
	Heatmaps          []HabitHeatmap     `json:"heatmaps"`
	Consistency       []ConsistencyScore `json:"consistency"`
}

// ComputeBasicHabitStats aggregates the free-tier habit report.
func ComputeBasicHabitStats(habits []models.Habit) BasicHabitReport {
	report := BasicHabitReport{
		CategoryDist:  Distribution{},
		FrequencyDist: Distribution{},
	}

	streakSum := 0
	for _, h := range habits {
		report.TotalHabits++
		if h.IsArchived {
			report.ArchivedHabits++
		} else {
			report.ActiveHabits++
		}
		report.TotalCompleted += len(h.CompletedDates)
		streakSum += h.Streak
		report.CategoryDist[categoryOf(h.Category)]++
		report.FrequencyDist[string(h.Frequency)]++
	}

	if report.TotalHabits > 0 {
		report.AvgStreak = round2(float64(streakSum) / float64(report.TotalHabits))
	}
	return report
}

// ComputePremiumHabitStats aggregates the premium habit report over an
// optional [from, to] window. Defaults: from = earliest effective start
// across the habits, to = today in the configured timezone.
func ComputePremiumHabitStats(habits []models.Habit, cfg calendar.Config, now time.Time, opts Options) (PremiumHabitReport, error) {
	report := PremiumHabitReport{FrequencyDist: Distribution{}}

	to := opts.To
	if to == "" {
		to = cfg.Today(now)
	}
	from := opts.From
	if from == "" {
		from = cfg.Today(now)
		for _, h := range habits {
			from = calendar.MinDay(from, cfg.EffectiveStart(h))
		}
	}

	for _, h := range habits {
		report.FrequencyDist[string(h.Frequency)]++
	}

	report.TopStreaks = topStreaks(habits, 3)

	totalDone := 0
	totalExpected := 0
	for _, h := range habits {
		expected, err := progress.ExpectedCompletions(h, to, cfg)
		if err != nil {
			return PremiumHabitReport{}, err
		}
		done, err := progress.DoneDays(h, to, cfg)
		if err != nil {
			return PremiumHabitReport{}, err
		}
		totalExpected += expected
		totalDone += len(done)
	}
	report.CompletionRate = roundRatio(totalDone, totalExpected)
	if remaining := totalExpected - totalDone; remaining > 0 {
		report.TotalRemaining = remaining
	}

	details, err := habitDetails(habits, from, to, cfg)
	if err != nil {
		return PremiumHabitReport{}, err
	}
	report.HabitDetails = details

	report.CategoryDetailed, err = groupDetails(habits, to, cfg, func(h models.Habit) string {
		return categoryOf(h.Category)
	})
	if err != nil {
		return PremiumHabitReport{}, err
	}
	report.FrequencyDetailed, err = groupDetails(habits, to, cfg, func(h models.Habit) string {
		return string(h.Frequency)
	})
	if err != nil {
		return PremiumHabitReport{}, err
	}

	report.DailyTrend, err = dailyTrend(habits, from, to)
	if err != nil {
		return PremiumHabitReport{}, err
	}

	report.StreakTimelines = streakTimelines(habits, from, to)

	report.Heatmaps, err = heatmaps(habits, from, to, cfg)
	if err != nil {
		return PremiumHabitReport{}, err
	}

	report.Consistency = consistencyScores(habits, from, to)

	return report, nil
}

func categoryOf(category string) string {
	if category == "" {
		return constants.DefaultCategory
	}
	return category
}

func topStreaks(habits []models.Habit, n int) []HabitStreakEntry {
	entries := make([]HabitStreakEntry, 0, len(habits))
	for _, h := range habits {
		entries = append(entries, HabitStreakEntry{
			HabitID:       h.ID,
			Title:         h.Title,
			LongestStreak: h.LongestStreak,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LongestStreak > entries[j].LongestStreak
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func habitDetails(habits []models.Habit, from, to string, cfg calendar.Config) ([]HabitDetail, error) {
	details := make([]HabitDetail, 0, len(habits))
	for _, h := range habits {
		required, err := cfg.ExpectedOccurrences(h, from, to)
		if err != nil {
			return nil, err
		}

		done, err := progress.DoneDays(h, to, cfg)
		if err != nil {
			return nil, err
		}
		doneInWindow := make([]string, 0, len(done))
		for day := range done {
			if day >= from && day <= to {
				doneInWindow = append(doneInWindow, day)
			}
		}
		sort.Strings(doneInWindow)

		doneSet := make(map[string]struct{}, len(doneInWindow))
		for _, day := range doneInWindow {
			doneSet[day] = struct{}{}
		}
		missed := make([]string, 0)
		for _, day := range required {
			if _, ok := doneSet[day]; !ok {
				missed = append(missed, day)
			}
		}

		detail := HabitDetail{
			HabitID:        h.ID,
			Title:          h.Title,
			Category:       categoryOf(h.Category),
			Frequency:      h.Frequency,
			RequiredCount:  len(required),
			DoneCount:      len(doneInWindow),
			RemainingCount: len(required) - len(doneInWindow),
			CompletedDates: doneInWindow,
			MissedDates:    missed,
			Streak:         h.Streak,
			LongestStreak:  h.LongestStreak,
		}
		details = append(details, detail)
	}
	return details, nil
}

func groupDetails(habits []models.Habit, to string, cfg calendar.Config, keyOf func(models.Habit) string) ([]GroupDetail, error) {
	byKey := make(map[string]*GroupDetail)
	var order []string
	for _, h := range habits {
		key := keyOf(h)
		g := byKey[key]
		if g == nil {
			g = &GroupDetail{Key: key}
			byKey[key] = g
			order = append(order, key)
		}
		g.TotalHabits++

		expected, err := progress.ExpectedCompletions(h, to, cfg)
		if err != nil {
			return nil, err
		}
		done, err := progress.DoneDays(h, to, cfg)
		if err != nil {
			return nil, err
		}
		g.TotalExpected += expected
		g.TotalDone += len(done)
	}

	details := make([]GroupDetail, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		g.CompletionRate = roundRatio(g.TotalDone, g.TotalExpected)
		details = append(details, *g)
	}
	return details, nil
}

func dailyTrend(habits []models.Habit, from, to string) ([]DayCount, error) {
	counts := make(map[string]int)
	var days []string
	err := calendar.EachDay(from, to, func(day string) {
		counts[day] = 0
		days = append(days, day)
	})
	if err != nil {
		return nil, err
	}

	for _, h := range habits {
		for _, day := range h.CompletedDates {
			if day >= from && day <= to {
				counts[day]++
			}
		}
	}

	trend := make([]DayCount, 0, len(days))
	for _, day := range days {
		trend = append(trend, DayCount{Date: day, Count: counts[day]})
	}
	return trend, nil
}

func streakTimelines(habits []models.Habit, from, to string) []StreakTimeline {
	timelines := make([]StreakTimeline, 0, len(habits))
	for _, h := range habits {
		var marks []string
		for _, day := range h.CompletedDates {
			if day >= from && day <= to {
				marks = append(marks, day)
			}
		}
		sort.Strings(marks)

		timeline := StreakTimeline{HabitID: h.ID}
		running := 0
		prev := ""
		for _, day := range marks {
			next, err := calendar.AddDays(prev, 1)
			if prev != "" && err == nil && day == next {
				running++
			} else {
				running = 1
			}
			timeline.Timeline = append(timeline.Timeline, StreakPoint{Date: day, Streak: running})
			prev = day
		}
		timelines = append(timelines, timeline)
	}
	return timelines
}

func heatmaps(habits []models.Habit, from, to string, cfg calendar.Config) ([]HabitHeatmap, error) {
	maps := make([]HabitHeatmap, 0, len(habits))
	for _, h := range habits {
		required, err := cfg.ExpectedOccurrences(h, from, to)
		if err != nil {
			return nil, err
		}
		done, err := progress.DoneDays(h, to, cfg)
		if err != nil {
			return nil, err
		}

		hm := HabitHeatmap{HabitID: h.ID}
		for _, day := range required {
			_, ok := done[day]
			hm.Cells = append(hm.Cells, HeatmapCell{Date: day, Completed: ok})
		}
		maps = append(maps, hm)
	}
	return maps, nil
}

func consistencyScores(habits []models.Habit, from, to string) []ConsistencyScore {
	scores := make([]ConsistencyScore, 0, len(habits))
	for _, h := range habits {
		score := ConsistencyScore{HabitID: h.ID}
		if h.Frequency != constants.FrequencyDaily || h.Type == constants.HabitQuit {
			scores = append(scores, score)
			continue
		}

		var marks []string
		for _, day := range h.CompletedDates {
			if day >= from && day <= to {
				marks = append(marks, day)
			}
		}
		sort.Strings(marks)

		zero := 0.0
		if len(marks) < 2 {
			score.Score = &zero
			scores = append(scores, score)
			continue
		}

		gaps := make([]float64, 0, len(marks)-1)
		for i := 1; i < len(marks); i++ {
			gap, err := calendar.DaysBetween(marks[i-1], marks[i])
			if err != nil {
				continue
			}
			gaps = append(gaps, float64(gap))
		}
		if len(gaps) == 0 {
			score.Score = &zero
			scores = append(scores, score)
			continue
		}

		mean := 0.0
		for _, g := range gaps {
			mean += g
		}
		mean /= float64(len(gaps))

		variance := 0.0
		for _, g := range gaps {
			variance += (g - mean) * (g - mean)
		}
		variance /= float64(len(gaps))

		stddev := round2(math.Sqrt(variance))
		score.Score = &stddev
		scores = append(scores, score)
	}
	return scores
}
