package models

import (
	"time"

	"github.com/strideapp/stride/internal/constants"
)

// Task represents a one-off or recurring to-do item. Recurring tasks mark
// each occurrence in CompletedDates; for non-recurring tasks IsCompleted
// mirrors whether the creation day's mark is present.
type Task struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	Recurring      constants.Recurring `json:"recurring"`
	Days           []string            `json:"days,omitempty"` // weekday names, weekly only
	StartTime      string              `json:"start_time,omitempty"` // HH:MM
	EndTime        string              `json:"end_time,omitempty"`   // HH:MM
	Category       string              `json:"category,omitempty"`
	Priority       constants.Priority  `json:"priority"`
	CompletedDates []string            `json:"completed_dates,omitempty"`
	IsCompleted    bool                `json:"is_completed"`
	CreatedAt      time.Time           `json:"created_at"`
}

// HasDay reports whether the weekday name is in the task's weekly day set.
func (t Task) HasDay(weekday string) bool {
	for _, d := range t.Days {
		if d == weekday {
			return true
		}
	}
	return false
}

// CompletedOn reports whether the task counts as completed on the given
// civil day. A non-recurring task also counts via its IsCompleted flag when
// the day is its creation day.
func (t Task) CompletedOn(day, createdDay string) bool {
	for _, d := range t.CompletedDates {
		if d == day {
			return true
		}
	}
	return t.Recurring == constants.RecurringNone && day == createdDay && t.IsCompleted
}
