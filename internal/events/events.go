// Package events routes mutation events to the recompute pipeline. Every
// change that can affect derived metrics (streaks, goal progress) flows
// through the Dispatcher so that recomputation happens in one place, in a
// fixed order: habit streaks first, then the metrics of any affected goal.
package events

import (
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/progress"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/streak"
)

// Event is a record mutation that may invalidate derived metrics.
type Event interface {
	Name() string
}

// HabitToggled fires when a habit is marked or unmarked for a day.
type HabitToggled struct {
	HabitID string
	Day     string
}

func (HabitToggled) Name() string { return "habit_toggled" }

// SlipRecorded fires when a quit habit logs a slip.
type SlipRecorded struct {
	HabitID string
	Day     string
}

func (SlipRecorded) Name() string { return "slip_recorded" }

// HabitEdited fires when a habit's recurrence fields change (frequency,
// weekday set, start date). Edits invalidate the whole streak history.
type HabitEdited struct {
	HabitID string
}

func (HabitEdited) Name() string { return "habit_edited" }

// GoalLinkChanged fires when a habit is linked to or unlinked from a goal.
type GoalLinkChanged struct {
	GoalID string
}

func (GoalLinkChanged) Name() string { return "goal_link_changed" }

// GoalCompletionToggled fires when a goal's completion status flips.
type GoalCompletionToggled struct {
	GoalID string
}

func (GoalCompletionToggled) Name() string { return "goal_completion_toggled" }

// DayRolledOver fires once per goal during the nightly recompute sweep.
type DayRolledOver struct {
	GoalID string
}

func (DayRolledOver) Name() string { return "day_rolled_over" }

// Logger is the subset of the app logger the dispatcher needs.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

// Dispatcher applies recompute handlers in response to events.
type Dispatcher struct {
	store storage.Provider
	cfg   calendar.Config
	now   func() time.Time
	log   Logger
}

// NewDispatcher wires a dispatcher to a store. The now func supplies the
// reference clock; tests inject a fixed one.
func NewDispatcher(store storage.Provider, cfg calendar.Config, now func() time.Time, log Logger) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{store: store, cfg: cfg, now: now, log: log}
}

// Dispatch runs the recompute handlers for an event and persists results.
func (d *Dispatcher) Dispatch(ev Event) error {
	if d.log != nil {
		d.log.Debug("dispatching event", "event", ev.Name())
	}

	switch e := ev.(type) {
	case HabitToggled:
		return d.recomputeHabit(e.HabitID)
	case SlipRecorded:
		return d.recomputeHabit(e.HabitID)
	case HabitEdited:
		return d.recomputeHabit(e.HabitID)
	case GoalLinkChanged:
		return d.recomputeGoal(e.GoalID)
	case GoalCompletionToggled:
		return d.recomputeGoal(e.GoalID)
	case DayRolledOver:
		return d.recomputeGoal(e.GoalID)
	default:
		return fmt.Errorf("unhandled event: %s", ev.Name())
	}
}

// recomputeHabit rebuilds the habit's streaks from its full mark history,
// then refreshes the linked goal if there is one.
func (d *Dispatcher) recomputeHabit(habitID string) error {
	habit, err := d.store.GetHabit(habitID)
	if err != nil {
		return err
	}

	result := streak.Compute(habit.Marks(), habit.Frequency, habit.Days)
	habit.Streak = result.Current
	habit.LongestStreak = result.Longest
	if err := d.store.UpdateHabit(habit); err != nil {
		return err
	}

	if habit.LinkedGoalID == "" {
		return nil
	}
	return d.recomputeGoal(habit.LinkedGoalID)
}

// recomputeGoal rebuilds a goal's metrics from its linked habits. Linked
// IDs that no longer resolve contribute nothing rather than failing the
// whole recompute.
func (d *Dispatcher) recomputeGoal(goalID string) error {
	goal, err := d.store.GetGoal(goalID)
	if err != nil {
		return err
	}

	var linked []models.Habit
	for _, id := range goal.LinkedHabitIDs {
		habit, err := d.store.GetHabit(id)
		if err != nil {
			if d.log != nil {
				d.log.Warn("skipping missing linked habit", "goal", goalID, "habit", id)
			}
			continue
		}
		linked = append(linked, habit)
	}

	asOf := progress.AsOf(d.now(), d.cfg)
	metrics, err := progress.RecomputeGoal(goal, linked, asOf, d.cfg)
	if err != nil {
		return err
	}

	goal.Progress = metrics.Progress
	goal.MissedDays = metrics.MissedDays
	goal.CurrentStreak = metrics.CurrentStreak
	goal.LongestStreak = metrics.LongestStreak
	return d.store.UpdateGoal(goal)
}
