package streak

import (
	"testing"

	"github.com/strideapp/stride/internal/constants"
)

func TestEmptyMarks(t *testing.T) {
	result := Compute(nil, constants.FrequencyDaily, nil)
	if result.Current != 0 || result.Longest != 0 {
		t.Errorf("expected {0, 0}, got %+v", result)
	}
}

func TestDailyRunWithGap(t *testing.T) {
	marks := []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-05"}
	result := Compute(marks, constants.FrequencyDaily, nil)

	if result.Longest != 3 {
		t.Errorf("expected longest 3, got %d", result.Longest)
	}
	if result.Current != 1 {
		t.Errorf("expected current 1 after gap, got %d", result.Current)
	}
}

func TestOrderAndDuplicateInvariance(t *testing.T) {
	sorted := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	shuffled := []string{"2025-01-03", "2025-01-01", "2025-01-02", "2025-01-02", "2025-01-01"}

	a := Compute(sorted, constants.FrequencyDaily, nil)
	b := Compute(shuffled, constants.FrequencyDaily, nil)
	if a != b {
		t.Errorf("expected identical results, got %+v and %+v", a, b)
	}
	if a.Current != 3 || a.Longest != 3 {
		t.Errorf("expected {3, 3}, got %+v", a)
	}
}

func TestSingleMark(t *testing.T) {
	result := Compute([]string{"2025-01-15"}, constants.FrequencyDaily, nil)
	if result.Current != 1 || result.Longest != 1 {
		t.Errorf("expected {1, 1}, got %+v", result)
	}
}

func TestWeeklyContinuesAcrossSevenDays(t *testing.T) {
	// Three consecutive Mondays.
	marks := []string{"2025-01-06", "2025-01-13", "2025-01-20"}
	result := Compute(marks, constants.FrequencyWeekly, []string{"Monday"})

	if result.Current != 3 || result.Longest != 3 {
		t.Errorf("expected {3, 3}, got %+v", result)
	}
}

func TestWeeklyBreaksOnSkippedWeek(t *testing.T) {
	// Mondays with one week missing.
	marks := []string{"2025-01-06", "2025-01-20"}
	result := Compute(marks, constants.FrequencyWeekly, []string{"Monday"})

	if result.Current != 1 || result.Longest != 1 {
		t.Errorf("expected {1, 1}, got %+v", result)
	}
}

func TestWeeklyRequiresValidWeekdays(t *testing.T) {
	// Seven days apart but the weekday is not in the valid set.
	marks := []string{"2025-01-07", "2025-01-14"}
	result := Compute(marks, constants.FrequencyWeekly, []string{"Monday"})

	if result.Current != 1 || result.Longest != 1 {
		t.Errorf("expected no continuation off the weekday set, got %+v", result)
	}
}

func TestMonthlySameDayOfMonth(t *testing.T) {
	marks := []string{"2025-01-15", "2025-02-15", "2025-03-15"}
	result := Compute(marks, constants.FrequencyMonthly, nil)

	if result.Current != 3 || result.Longest != 3 {
		t.Errorf("expected {3, 3}, got %+v", result)
	}
}

func TestMonthlySkipsMonthsWithoutTheDay(t *testing.T) {
	// The 31st does not exist in February; March 31 is the next occurrence.
	marks := []string{"2025-01-31", "2025-03-31"}
	result := Compute(marks, constants.FrequencyMonthly, nil)

	if result.Current != 2 || result.Longest != 2 {
		t.Errorf("expected {2, 2} across the February gap, got %+v", result)
	}
}

func TestMonthlyBreaksOnMissedMonth(t *testing.T) {
	marks := []string{"2025-01-15", "2025-03-15"}
	result := Compute(marks, constants.FrequencyMonthly, nil)

	if result.Current != 1 || result.Longest != 1 {
		t.Errorf("expected {1, 1}, got %+v", result)
	}
}

func TestMalformedMarksAreIgnored(t *testing.T) {
	marks := []string{"2025-01-01", "not-a-date", "2025-01-02"}
	result := Compute(marks, constants.FrequencyDaily, nil)

	if result.Current != 2 || result.Longest != 2 {
		t.Errorf("expected {2, 2}, got %+v", result)
	}
}
