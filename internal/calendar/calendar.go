package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// ErrInvalidRecurrence is returned when a habit carries an unrecognized
// frequency value.
var ErrInvalidRecurrence = errors.New("invalid recurrence frequency")

// Config fixes the civil-day policy for all calendar arithmetic. It is
// passed explicitly to every call so that the toggle path and the report
// path derive "today" from the same timezone.
type Config struct {
	Location *time.Location
}

// Default returns a Config using the default reference timezone (UTC).
func Default() Config {
	return Config{Location: time.UTC}
}

// Load builds a Config from an IANA timezone name. Empty or "Local" maps
// to the system timezone.
func Load(timezone string) (Config, error) {
	if timezone == "" || timezone == "Local" {
		return Config{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return Config{Location: loc}, nil
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// DayOf truncates a timestamp to its civil day (YYYY-MM-DD) in the
// configured timezone.
func (c Config) DayOf(t time.Time) string {
	return t.In(c.location()).Format(constants.DateFormat)
}

// Today returns the civil day for the given "now" timestamp.
func (c Config) Today(now time.Time) string {
	return c.DayOf(now)
}

// EffectiveStart returns the habit's first day of obligation: the later of
// its start date and its creation time, truncated to a civil day. A habit
// created mid-day starts owing occurrences on its creation day, not before.
func (c Config) EffectiveStart(h models.Habit) string {
	start := c.DayOf(h.StartDate)
	created := c.DayOf(h.CreatedAt)
	if created > start {
		return created
	}
	return start
}

// ExpectedOccurrences enumerates the civil days in [windowStart, windowEnd]
// (both inclusive) on which the habit is required, in ascending order.
// Days before the habit's effective start are never required. A window
// ending before the effective start yields an empty slice, not an error.
//
// Monthly habits recur on the day-of-month of their effective start;
// months lacking that day (e.g. the 31st in February) are skipped.
func (c Config) ExpectedOccurrences(h models.Habit, windowStart, windowEnd string) ([]string, error) {
	effective := c.EffectiveStart(h)
	if windowStart < effective {
		windowStart = effective
	}
	if windowEnd < windowStart {
		return nil, nil
	}

	start, err := ParseDay(windowStart)
	if err != nil {
		return nil, err
	}
	end, err := ParseDay(windowEnd)
	if err != nil {
		return nil, err
	}

	var required []string
	switch h.Frequency {
	case constants.FrequencyDaily:
		for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
			required = append(required, FormatDay(cursor))
		}
	case constants.FrequencyWeekly:
		for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
			if h.HasDay(cursor.Weekday().String()) {
				required = append(required, FormatDay(cursor))
			}
		}
	case constants.FrequencyMonthly:
		anchor, err := ParseDay(effective)
		if err != nil {
			return nil, err
		}
		target := anchor.Day()
		for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
			if cursor.Day() == target {
				required = append(required, FormatDay(cursor))
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecurrence, h.Frequency)
	}

	return required, nil
}

// ParseDay parses a civil-day string. Civil days are compared and advanced
// as zone-free UTC midnights so that date arithmetic cannot be skewed by
// DST transitions.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t, nil
}

// FormatDay formats a time as a civil-day string.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// AddDays returns the civil day n days after the given one.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the whole-day distance from one civil day to another.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// WeekdayName returns the full weekday name ("Monday") of a civil day.
func WeekdayName(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.Weekday().String(), nil
}

// MinDay and MaxDay compare civil-day strings; the YYYY-MM-DD format makes
// lexicographic order identical to chronological order.

func MinDay(a, b string) string {
	if a < b {
		return a
	}
	return b
}

func MaxDay(a, b string) string {
	if a > b {
		return a
	}
	return b
}

// EachDay calls fn for every civil day in [start, end] inclusive, in
// ascending order. Returns without calling fn when end precedes start.
func EachDay(start, end string, fn func(day string)) error {
	if end < start {
		return nil
	}
	s, err := ParseDay(start)
	if err != nil {
		return err
	}
	e, err := ParseDay(end)
	if err != nil {
		return err
	}
	for cursor := s; !cursor.After(e); cursor = cursor.AddDate(0, 0, 1) {
		fn(FormatDay(cursor))
	}
	return nil
}
