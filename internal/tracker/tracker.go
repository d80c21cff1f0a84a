// Package tracker implements the mutation operations of the app: creating
// records, toggling completions, recording slips, and managing goal links.
// Every mutation persists the raw change first and then emits an event so
// derived metrics are recomputed through one pipeline.
package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/events"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/validation"
)

// Tracker coordinates record mutations against a store.
type Tracker struct {
	store      storage.Provider
	cfg        calendar.Config
	dispatcher *events.Dispatcher
	validator  *validation.Validator
	now        func() time.Time
}

// New builds a Tracker. The now func supplies the reference clock; tests
// inject a fixed one.
func New(store storage.Provider, cfg calendar.Config, dispatcher *events.Dispatcher, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		store:      store,
		cfg:        cfg,
		dispatcher: dispatcher,
		validator:  validation.New(),
		now:        now,
	}
}

// CreateHabit validates and persists a new habit, assigning it an ID and
// creation time.
func (t *Tracker) CreateHabit(habit models.Habit) (models.Habit, error) {
	habit.ID = uuid.NewString()
	habit.CreatedAt = t.now()
	if habit.StartDate.IsZero() {
		habit.StartDate = habit.CreatedAt
	}
	if habit.Type == "" {
		habit.Type = constants.HabitBuild
	}

	if result := t.validator.ValidateHabit(habit); result.HasConflicts() {
		return models.Habit{}, fmt.Errorf("invalid habit: %s", result.FormatReport())
	}

	if err := t.store.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// CreateGoal validates and persists a new goal.
func (t *Tracker) CreateGoal(goal models.Goal) (models.Goal, error) {
	goal.ID = uuid.NewString()
	goal.CreatedAt = t.now()
	if goal.Status == "" {
		goal.Status = constants.GoalActive
	}
	if goal.Priority == "" {
		goal.Priority = constants.PriorityMedium
	}

	habits, err := t.store.GetAllHabits(true)
	if err != nil {
		return models.Goal{}, err
	}
	if result := t.validator.ValidateGoal(goal, habits); result.HasConflicts() {
		return models.Goal{}, fmt.Errorf("invalid goal: %s", result.FormatReport())
	}

	if err := t.store.AddGoal(goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// CreateTask validates and persists a new task.
func (t *Tracker) CreateTask(task models.Task) (models.Task, error) {
	task.ID = uuid.NewString()
	task.CreatedAt = t.now()
	if task.Recurring == "" {
		task.Recurring = constants.RecurringNone
	}
	if task.Priority == "" {
		task.Priority = constants.PriorityMedium
	}

	if result := t.validator.ValidateTask(task); result.HasConflicts() {
		return models.Task{}, fmt.Errorf("invalid task: %s", result.FormatReport())
	}

	if err := t.store.AddTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ToggleHabit marks a build habit done for today, or removes the mark if
// already present. Streaks are recomputed from scratch either way, so
// unmarking restores exactly the pre-mark state.
func (t *Tracker) ToggleHabit(habitID string) (models.Habit, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.Type == constants.HabitQuit {
		return models.Habit{}, fmt.Errorf("quit habit %q tracks slips, not completions", habit.Title)
	}

	now := t.now()
	today := t.cfg.Today(now)

	if idx := indexOf(habit.CompletedDates, today); idx >= 0 {
		habit.CompletedDates = append(habit.CompletedDates[:idx], habit.CompletedDates[idx+1:]...)
		habit.LastCompletedAt = nil
	} else {
		habit.CompletedDates = append(habit.CompletedDates, today)
		habit.LastCompletedAt = &now
	}

	if err := t.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, err
	}
	if err := t.dispatcher.Dispatch(events.HabitToggled{HabitID: habit.ID, Day: today}); err != nil {
		return models.Habit{}, err
	}
	return t.store.GetHabit(habitID)
}

// RecordSlip logs a slip for a quit habit on today's date. Slips are
// idempotent per day.
func (t *Tracker) RecordSlip(habitID string) (models.Habit, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.Type != constants.HabitQuit {
		return models.Habit{}, fmt.Errorf("habit %q is not a quit habit", habit.Title)
	}

	today := t.cfg.Today(t.now())
	if indexOf(habit.SlipDates, today) < 0 {
		habit.SlipDates = append(habit.SlipDates, today)
		if err := t.store.UpdateHabit(habit); err != nil {
			return models.Habit{}, err
		}
	}

	if err := t.dispatcher.Dispatch(events.SlipRecorded{HabitID: habit.ID, Day: today}); err != nil {
		return models.Habit{}, err
	}
	return t.store.GetHabit(habitID)
}

// EditHabit replaces a habit's editable fields. A change to recurrence
// fields triggers a full recompute.
func (t *Tracker) EditHabit(habit models.Habit) (models.Habit, error) {
	existing, err := t.store.GetHabit(habit.ID)
	if err != nil {
		return models.Habit{}, err
	}

	if result := t.validator.ValidateHabit(habit); result.HasConflicts() {
		return models.Habit{}, fmt.Errorf("invalid habit: %s", result.FormatReport())
	}

	recurrenceChanged := existing.Frequency != habit.Frequency ||
		!sameStrings(existing.Days, habit.Days) ||
		!existing.StartDate.Equal(habit.StartDate)

	if err := t.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, err
	}

	if recurrenceChanged {
		if err := t.dispatcher.Dispatch(events.HabitEdited{HabitID: habit.ID}); err != nil {
			return models.Habit{}, err
		}
	}
	return t.store.GetHabit(habit.ID)
}

// LinkHabit attaches a habit to a goal and recomputes the goal's metrics.
func (t *Tracker) LinkHabit(goalID, habitID string) error {
	goal, err := t.store.GetGoal(goalID)
	if err != nil {
		return err
	}
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return err
	}

	if !goal.HasLinkedHabit(habitID) {
		goal.LinkedHabitIDs = append(goal.LinkedHabitIDs, habitID)
		if err := t.store.UpdateGoal(goal); err != nil {
			return err
		}
	}
	if habit.LinkedGoalID != goalID {
		habit.LinkedGoalID = goalID
		if err := t.store.UpdateHabit(habit); err != nil {
			return err
		}
	}

	return t.dispatcher.Dispatch(events.GoalLinkChanged{GoalID: goalID})
}

// UnlinkHabit detaches a habit from a goal and recomputes the goal's
// metrics over the remaining links.
func (t *Tracker) UnlinkHabit(goalID, habitID string) error {
	goal, err := t.store.GetGoal(goalID)
	if err != nil {
		return err
	}

	if idx := indexOf(goal.LinkedHabitIDs, habitID); idx >= 0 {
		goal.LinkedHabitIDs = append(goal.LinkedHabitIDs[:idx], goal.LinkedHabitIDs[idx+1:]...)
		if err := t.store.UpdateGoal(goal); err != nil {
			return err
		}
	}

	if habit, err := t.store.GetHabit(habitID); err == nil && habit.LinkedGoalID == goalID {
		habit.LinkedGoalID = ""
		if err := t.store.UpdateHabit(habit); err != nil {
			return err
		}
	}

	return t.dispatcher.Dispatch(events.GoalLinkChanged{GoalID: goalID})
}

// ToggleGoalCompletion flips a goal between active and completed. Marking
// complete also force-completes every linked build habit for today, so the
// goal's derived metrics reflect the finished state.
func (t *Tracker) ToggleGoalCompletion(goalID string) (models.Goal, error) {
	goal, err := t.store.GetGoal(goalID)
	if err != nil {
		return models.Goal{}, err
	}

	now := t.now()
	today := t.cfg.Today(now)

	if goal.Status == constants.GoalCompleted {
		goal.Status = constants.GoalActive
		goal.CompletedAt = nil
	} else {
		goal.Status = constants.GoalCompleted
		goal.CompletedAt = &now

		for _, habitID := range goal.LinkedHabitIDs {
			habit, err := t.store.GetHabit(habitID)
			if err != nil {
				continue
			}
			if habit.Type == constants.HabitQuit {
				continue
			}
			if indexOf(habit.CompletedDates, today) < 0 {
				habit.CompletedDates = append(habit.CompletedDates, today)
				habit.LastCompletedAt = &now
				if err := t.store.UpdateHabit(habit); err != nil {
					return models.Goal{}, err
				}
				if err := t.dispatcher.Dispatch(events.HabitToggled{HabitID: habitID, Day: today}); err != nil {
					return models.Goal{}, err
				}
			}
		}
	}

	if err := t.store.UpdateGoal(goal); err != nil {
		return models.Goal{}, err
	}
	if err := t.dispatcher.Dispatch(events.GoalCompletionToggled{GoalID: goalID}); err != nil {
		return models.Goal{}, err
	}
	return t.store.GetGoal(goalID)
}

// ToggleTask marks a task completed for today, or removes today's mark.
// Non-recurring tasks also flip their IsCompleted flag to keep the mirror
// invariant.
func (t *Tracker) ToggleTask(taskID string) (models.Task, error) {
	task, err := t.store.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}

	today := t.cfg.Today(t.now())
	if idx := indexOf(task.CompletedDates, today); idx >= 0 {
		task.CompletedDates = append(task.CompletedDates[:idx], task.CompletedDates[idx+1:]...)
	} else {
		task.CompletedDates = append(task.CompletedDates, today)
	}
	if task.Recurring == constants.RecurringNone {
		task.IsCompleted = indexOf(task.CompletedDates, t.cfg.DayOf(task.CreatedAt)) >= 0
	}

	if err := t.store.UpdateTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
