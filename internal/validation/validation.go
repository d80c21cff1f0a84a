package validation

import (
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidFrequency  ConflictType = "invalid_frequency"
	ConflictInvalidRecurrence ConflictType = "invalid_recurrence"
	ConflictInvalidWeekday    ConflictType = "invalid_weekday"
	ConflictMissingWeekdays   ConflictType = "missing_weekdays"
	ConflictQuitWithMarks     ConflictType = "quit_with_completions"
	ConflictInvalidDate       ConflictType = "invalid_date"
	ConflictInvalidTime       ConflictType = "invalid_time"
	ConflictMissingHabitID    ConflictType = "missing_habit_id"
	ConflictInvalidStatus     ConflictType = "invalid_status"
	ConflictInvalidPriority   ConflictType = "invalid_priority"
)

// Conflict represents a detected problem in a record
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // titles/IDs involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks records before they enter storage or the recompute
// pipeline
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabit checks a habit record for conflicts.
func (v *Validator) ValidateHabit(h models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	switch h.Frequency {
	case constants.FrequencyDaily, constants.FrequencyWeekly, constants.FrequencyMonthly:
	default:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidFrequency,
			Description: fmt.Sprintf("Habit %q has unknown frequency: %s", h.Title, h.Frequency),
			Items:       []string{h.Title},
		})
	}

	if h.Frequency == constants.FrequencyWeekly {
		if len(h.Days) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingWeekdays,
				Description: fmt.Sprintf("Weekly habit %q has no weekdays selected", h.Title),
				Items:       []string{h.Title},
			})
		}
		for _, day := range h.Days {
			if !isWeekdayName(day) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidWeekday,
					Description: fmt.Sprintf("Habit %q has invalid weekday: %q", h.Title, day),
					Items:       []string{h.Title},
				})
			}
		}
	}

	if h.Type == constants.HabitQuit && len(h.CompletedDates) > 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictQuitWithMarks,
			Description: fmt.Sprintf("Quit habit %q carries completion marks; quit habits record slips only", h.Title),
			Items:       []string{h.Title},
		})
	}

	for _, d := range append(append([]string{}, h.CompletedDates...), h.SlipDates...) {
		if !isValidDate(d) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Habit %q has malformed mark date: %q", h.Title, d),
				Items:       []string{h.Title},
			})
		}
	}

	return result
}

// ValidateGoal checks a goal record, resolving linked habit IDs against the
// known habit set.
func (v *Validator) ValidateGoal(g models.Goal, habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	switch g.Status {
	case constants.GoalActive, constants.GoalCompleted, constants.GoalCancelled:
	default:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidStatus,
			Description: fmt.Sprintf("Goal %q has unknown status: %s", g.Title, g.Status),
			Items:       []string{g.Title},
		})
	}

	known := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		known[h.ID] = struct{}{}
	}
	for _, id := range g.LinkedHabitIDs {
		if _, ok := known[id]; !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingHabitID,
				Description: fmt.Sprintf("Goal %q links unknown habit ID: %s", g.Title, id),
				Items:       []string{g.Title, id},
			})
		}
	}

	return result
}

// ValidateTask checks a task record for conflicts.
func (v *Validator) ValidateTask(t models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	switch t.Recurring {
	case constants.RecurringNone, constants.RecurringDaily, constants.RecurringWeekly, constants.RecurringMonthly:
	default:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidRecurrence,
			Description: fmt.Sprintf("Task %q has unknown recurrence: %s", t.Title, t.Recurring),
			Items:       []string{t.Title},
		})
	}

	switch t.Priority {
	case constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh:
	default:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidPriority,
			Description: fmt.Sprintf("Task %q has unknown priority: %s", t.Title, t.Priority),
			Items:       []string{t.Title},
		})
	}

	if t.Recurring == constants.RecurringWeekly {
		if len(t.Days) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingWeekdays,
				Description: fmt.Sprintf("Weekly task %q has no weekdays selected", t.Title),
				Items:       []string{t.Title},
			})
		}
		for _, day := range t.Days {
			if !isWeekdayName(day) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidWeekday,
					Description: fmt.Sprintf("Task %q has invalid weekday: %q", t.Title, day),
					Items:       []string{t.Title},
				})
			}
		}
	}

	if t.StartTime != "" && !isValidTimeFormat(t.StartTime) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidTime,
			Description: fmt.Sprintf("Task %q has invalid start time: %s", t.Title, t.StartTime),
			Items:       []string{t.Title},
		})
	}
	if t.EndTime != "" && !isValidTimeFormat(t.EndTime) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidTime,
			Description: fmt.Sprintf("Task %q has invalid end time: %s", t.Title, t.EndTime),
			Items:       []string{t.Title},
		})
	}
	if isValidTimeFormat(t.StartTime) && isValidTimeFormat(t.EndTime) && t.EndTime < t.StartTime {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidTime,
			Description: fmt.Sprintf("Task %q has end time (%s) before start time (%s)", t.Title, t.EndTime, t.StartTime),
			Items:       []string{t.Title},
		})
	}

	for _, d := range t.CompletedDates {
		if !isValidDate(d) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Task %q has malformed completion date: %q", t.Title, d),
				Items:       []string{t.Title},
			})
		}
	}

	return result
}

// Helper functions

func isValidDate(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

func isValidTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

func isWeekdayName(name string) bool {
	for _, wd := range constants.WeekdayNames {
		if wd == name {
			return true
		}
	}
	return false
}
