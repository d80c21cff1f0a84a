package streak

import (
	"sort"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
)

// Result holds the streaks derived from a habit's mark history.
type Result struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Compute derives the current and longest streak from a set of civil-day
// marks under the given recurrence rule. Marks are deduplicated and sorted
// internally, so callers may pass them in any order and with duplicates.
//
// A pair of consecutive marks continues a streak when the later mark falls
// on the next expected occurrence after the earlier one:
//   - daily: the next day
//   - weekly: exactly seven days later, with both weekdays in the valid set
//   - monthly: the same day-of-month in the next month that has it
//     (months lacking the day are skipped, mirroring the occurrence rule)
//
// Empty input yields {0, 0}. With at least one mark the current streak is
// never below 1: an isolated mark is a run of length 1.
func Compute(marks []string, frequency constants.Frequency, validDays []string) Result {
	dates := dedupeSorted(marks)
	if len(dates) == 0 {
		return Result{}
	}

	// Forward pass: longest run anywhere in the history.
	longest := 1
	segment := 1
	for i := 1; i < len(dates); i++ {
		if continues(dates[i-1], dates[i], frequency, validDays) {
			segment++
		} else {
			if segment > longest {
				longest = segment
			}
			segment = 1
		}
	}
	if segment > longest {
		longest = segment
	}

	// Backward pass: run ending at the most recent mark.
	current := 1
	for i := len(dates) - 1; i > 0; i-- {
		if !continues(dates[i-1], dates[i], frequency, validDays) {
			break
		}
		current++
	}

	return Result{Current: current, Longest: longest}
}

func dedupeSorted(marks []string) []time.Time {
	seen := make(map[string]struct{}, len(marks))
	var dates []time.Time
	for _, m := range marks {
		if _, ok := seen[m]; ok {
			continue
		}
		t, err := calendar.ParseDay(m)
		if err != nil {
			continue
		}
		seen[m] = struct{}{}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func continues(prev, curr time.Time, frequency constants.Frequency, validDays []string) bool {
	switch frequency {
	case constants.FrequencyDaily:
		return curr.Equal(prev.AddDate(0, 0, 1))
	case constants.FrequencyWeekly:
		if !curr.Equal(prev.AddDate(0, 0, 7)) {
			return false
		}
		return containsDay(validDays, prev.Weekday().String()) &&
			containsDay(validDays, curr.Weekday().String())
	case constants.FrequencyMonthly:
		next, ok := nextMonthlyOccurrence(prev)
		return ok && curr.Equal(next)
	default:
		return false
	}
}

// nextMonthlyOccurrence finds the next month that has prev's day-of-month.
// time.Date normalizes overflow (Feb 31 -> Mar 3), so a candidate counts
// only when its day survives the round trip.
func nextMonthlyOccurrence(prev time.Time) (time.Time, bool) {
	day := prev.Day()
	for add := 1; add <= 12; add++ {
		candidate := time.Date(prev.Year(), prev.Month()+time.Month(add), day, 0, 0, 0, 0, time.UTC)
		if candidate.Day() == day {
			return candidate, true
		}
	}
	return time.Time{}, false
}

func containsDay(days []string, weekday string) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}
