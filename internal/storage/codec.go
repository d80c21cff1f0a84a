package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(data), nil
}

func decodeStrings(encoded string) ([]string, error) {
	if encoded == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func encodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func decodeTime(encoded string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, encoded)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode timestamp %q: %w", encoded, err)
	}
	return t, nil
}

func decodeTimePtr(encoded sql.NullString) (*time.Time, error) {
	if !encoded.Valid || encoded.String == "" {
		return nil, nil
	}
	t, err := decodeTime(encoded.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var habitType, frequency, days, startDate, createdAt, completed, slips string
	var lastCompleted sql.NullString

	err := row.Scan(
		&h.ID, &h.Title, &h.Description, &habitType, &frequency, &days,
		&startDate, &createdAt, &completed, &slips, &h.Streak, &h.LongestStreak,
		&lastCompleted, &h.LinkedGoalID, &h.Category, &h.Icon, &h.IsArchived,
	)
	if err != nil {
		return models.Habit{}, err
	}

	h.Type = constants.HabitType(habitType)
	h.Frequency = constants.Frequency(frequency)
	if h.Days, err = decodeStrings(days); err != nil {
		return models.Habit{}, err
	}
	if h.StartDate, err = decodeTime(startDate); err != nil {
		return models.Habit{}, err
	}
	if h.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.CompletedDates, err = decodeStrings(completed); err != nil {
		return models.Habit{}, err
	}
	if h.SlipDates, err = decodeStrings(slips); err != nil {
		return models.Habit{}, err
	}
	if h.LastCompletedAt, err = decodeTimePtr(lastCompleted); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var g models.Goal
	var targetDate, status, linked, priority, createdAt string
	var completedAt sql.NullString

	err := row.Scan(
		&g.ID, &g.Title, &g.Description, &targetDate, &status, &g.Progress,
		&linked, &priority, &g.Category, &g.MissedDays, &g.CurrentStreak,
		&g.LongestStreak, &createdAt, &completedAt,
	)
	if err != nil {
		return models.Goal{}, err
	}

	g.Status = constants.GoalStatus(status)
	g.Priority = constants.Priority(priority)
	if g.TargetDate, err = decodeTime(targetDate); err != nil {
		return models.Goal{}, err
	}
	if g.LinkedHabitIDs, err = decodeStrings(linked); err != nil {
		return models.Goal{}, err
	}
	if g.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.Goal{}, err
	}
	if g.CompletedAt, err = decodeTimePtr(completedAt); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var recurring, days, priority, completed, createdAt string

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &recurring, &days, &t.StartTime,
		&t.EndTime, &t.Category, &priority, &completed, &t.IsCompleted, &createdAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Recurring = constants.Recurring(recurring)
	t.Priority = constants.Priority(priority)
	if t.Days, err = decodeStrings(days); err != nil {
		return models.Task{}, err
	}
	if t.CompletedDates, err = decodeStrings(completed); err != nil {
		return models.Task{}, err
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}
