// Package analytics produces read-only statistical reports over habit,
// task, and goal histories. Reports are computed fresh on every call from
// the records passed in; nothing is cached and inputs are never mutated,
// so reporters are safe to invoke concurrently.
package analytics

// Options narrows a premium report to a civil-day window. Zero values fall
// back to the defaults: From to the earliest activity start among the
// records, To to today.
type Options struct {
	From string
	To   string
}

// Distribution is a grouping count keyed by a field value.
type Distribution map[string]int

// DayTally pairs totals and completions for a single civil day.
type DayTally struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// TrendPoint is one day of a trailing trend window, oldest first.
type TrendPoint struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

func round2(v float64) float64 {
	return float64(int(v*100+copysignHalf(v))) / 100
}

func copysignHalf(v float64) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

// ratio returns numerator/denominator as a percentage, or 0 when the
// denominator is zero. Results are always finite.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// roundRatio is ratio rounded to the nearest whole percent.
func roundRatio(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(ratio(numerator, denominator) + 0.5)
}
