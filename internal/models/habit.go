package models

import (
	"time"

	"github.com/strideapp/stride/internal/constants"
)

// Habit represents a recurring practice to track. Build habits accumulate
// completion marks; quit habits accumulate slip marks (failures, not
// successes). Marks are civil days (YYYY-MM-DD), at most one per day.
type Habit struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description,omitempty"`
	Type            constants.HabitType `json:"type"`
	Frequency       constants.Frequency `json:"frequency"`
	Days            []string            `json:"days,omitempty"` // weekday names, weekly only
	StartDate       time.Time           `json:"start_date"`
	CreatedAt       time.Time           `json:"created_at"`
	CompletedDates  []string            `json:"completed_dates,omitempty"`
	SlipDates       []string            `json:"slip_dates,omitempty"`
	Streak          int                 `json:"streak"`
	LongestStreak   int                 `json:"longest_streak"`
	LastCompletedAt *time.Time          `json:"last_completed_at,omitempty"`
	LinkedGoalID    string              `json:"linked_goal_id,omitempty"`
	Category        string              `json:"category,omitempty"`
	Icon            string              `json:"icon,omitempty"`
	IsArchived      bool                `json:"is_archived"`
}

// Marks returns the habit's raw mark set: completion days for build habits,
// slip days for quit habits.
func (h Habit) Marks() []string {
	if h.Type == constants.HabitQuit {
		return h.SlipDates
	}
	return h.CompletedDates
}

// HasDay reports whether the weekday name is in the habit's weekly day set.
func (h Habit) HasDay(weekday string) bool {
	for _, d := range h.Days {
		if d == weekday {
			return true
		}
	}
	return false
}
