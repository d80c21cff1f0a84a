package models

import (
	"time"

	"github.com/strideapp/stride/internal/constants"
)

// Goal represents a target the user works toward through linked habits.
// Progress, MissedDays, and the streak fields are derived: they are
// recomputed whenever a linked habit's completion state or the link set
// changes, never hand-edited.
type Goal struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description,omitempty"`
	TargetDate     time.Time            `json:"target_date"`
	Status         constants.GoalStatus `json:"status"`
	Progress       int                  `json:"progress"` // 0-100
	LinkedHabitIDs []string             `json:"linked_habit_ids,omitempty"`
	Priority       constants.Priority   `json:"priority"`
	Category       string               `json:"category,omitempty"`
	MissedDays     int                  `json:"missed_days"`
	CurrentStreak  int                  `json:"current_streak"`
	LongestStreak  int                  `json:"longest_streak"`
	CreatedAt      time.Time            `json:"created_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
}

// HasLinkedHabit reports whether the habit id is in the goal's link set.
func (g Goal) HasLinkedHabit(habitID string) bool {
	for _, id := range g.LinkedHabitIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

// GoalMetrics holds the derived fields recomputed from a goal's linked
// habits. Returned whole: a recompute either yields a complete metrics
// record or an error, never a partial update.
type GoalMetrics struct {
	Progress      int `json:"progress"`
	MissedDays    int `json:"missed_days"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}
