package progress

import (
	"math"
	"sort"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// RecomputeGoal derives a goal's progress, missed days, and streaks from
// its linked habits as of the given civil day. It is pure: persisting the
// returned metrics is the caller's concern, and calling it twice with
// unchanged inputs yields identical output.
//
// The scan window runs from the earliest effective start among the linked
// habits through the earlier of asOf and the goal's target date. A day is
// fully satisfied when every habit required on it is satisfied: marked done
// for build habits, free of slips for quit habits. Days with no required
// habit count toward neither success nor failure. Only days strictly before
// asOf can be missed; an incomplete "today" neither breaks nor extends the
// streak.
func RecomputeGoal(goal models.Goal, linkedHabits []models.Habit, asOf string, cfg calendar.Config) (models.GoalMetrics, error) {
	if len(linkedHabits) == 0 {
		return models.GoalMetrics{}, nil
	}

	windowEnd := calendar.MinDay(asOf, cfg.DayOf(goal.TargetDate))
	windowStart := cfg.EffectiveStart(linkedHabits[0])
	for _, h := range linkedHabits[1:] {
		windowStart = calendar.MinDay(windowStart, cfg.EffectiveStart(h))
	}
	if windowEnd < windowStart {
		return models.GoalMetrics{}, nil
	}

	type tally struct {
		required  int
		satisfied int
	}
	byDay := make(map[string]*tally)
	totalExpected := 0
	totalDone := 0

	for _, h := range linkedHabits {
		required, err := cfg.ExpectedOccurrences(h, windowStart, windowEnd)
		if err != nil {
			return models.GoalMetrics{}, err
		}

		markSet := make(map[string]struct{}, len(h.Marks()))
		for _, m := range h.Marks() {
			markSet[m] = struct{}{}
		}

		for _, day := range required {
			t := byDay[day]
			if t == nil {
				t = &tally{}
				byDay[day] = t
			}
			t.required++
			totalExpected++

			_, marked := markSet[day]
			done := marked
			if h.Type == constants.HabitQuit {
				// A quit habit succeeds on a day with no slip recorded.
				done = !marked
			}
			if done {
				t.satisfied++
				totalDone++
			}
		}
	}

	metrics := models.GoalMetrics{}
	if totalExpected > 0 {
		pct := int(math.Round(float64(totalDone) / float64(totalExpected) * 100))
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		metrics.Progress = pct
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		t := byDay[day]
		if t.required == 0 {
			continue
		}
		if t.satisfied == t.required {
			if day <= asOf {
				metrics.CurrentStreak++
				if metrics.CurrentStreak > metrics.LongestStreak {
					metrics.LongestStreak = metrics.CurrentStreak
				}
			}
		} else if day < asOf {
			metrics.MissedDays++
			metrics.CurrentStreak = 0
		}
		// An unmet requirement on asOf itself is still pending: leave the
		// streak untouched until the day has passed.
	}

	return metrics, nil
}

// ExpectedCompletions counts how many occurrences a habit owes from its
// effective start through the given civil day, inclusive.
func ExpectedCompletions(h models.Habit, through string, cfg calendar.Config) (int, error) {
	required, err := cfg.ExpectedOccurrences(h, cfg.EffectiveStart(h), through)
	if err != nil {
		return 0, err
	}
	return len(required), nil
}

// DoneDays returns the set of civil days on which the habit counts as
// satisfied, up to and including the given day. For build habits these are
// its completion marks; for quit habits, the required days with no slip.
func DoneDays(h models.Habit, through string, cfg calendar.Config) (map[string]struct{}, error) {
	done := make(map[string]struct{})
	if h.Type == constants.HabitQuit {
		required, err := cfg.ExpectedOccurrences(h, cfg.EffectiveStart(h), through)
		if err != nil {
			return nil, err
		}
		slips := make(map[string]struct{}, len(h.SlipDates))
		for _, d := range h.SlipDates {
			slips[d] = struct{}{}
		}
		for _, day := range required {
			if _, slipped := slips[day]; !slipped {
				done[day] = struct{}{}
			}
		}
		return done, nil
	}

	for _, d := range h.CompletedDates {
		if d <= through {
			done[d] = struct{}{}
		}
	}
	return done, nil
}

// AsOf converts a wall-clock "now" into the civil day used for recompute.
func AsOf(now time.Time, cfg calendar.Config) string {
	return cfg.DayOf(now)
}
