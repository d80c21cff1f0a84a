package cli

import (
	"fmt"
	"strings"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/events"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/tracker"
)

type Context struct {
	Store      storage.Provider
	Config     calendar.Config
	Tracker    *tracker.Tracker
	Dispatcher *events.Dispatcher
}

// ParseWeekdays parses a comma-separated list of weekdays into full names
// ("Monday"). Accepts full names, three-letter abbreviations, and numbers
// (0=Sunday, 6=Saturday).
func ParseWeekdays(s string) ([]string, error) {
	dayMap := map[string]string{
		"sun": "Sunday", "sunday": "Sunday", "0": "Sunday",
		"mon": "Monday", "monday": "Monday", "1": "Monday",
		"tue": "Tuesday", "tuesday": "Tuesday", "2": "Tuesday",
		"wed": "Wednesday", "wednesday": "Wednesday", "3": "Wednesday",
		"thu": "Thursday", "thursday": "Thursday", "4": "Thursday",
		"fri": "Friday", "friday": "Friday", "5": "Friday",
		"sat": "Saturday", "saturday": "Saturday", "6": "Saturday",
	}

	var weekdays []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		name, ok := dayMap[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, name)
	}
	return weekdays, nil
}

// FindHabit resolves a habit by ID or exact title.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	if habit, err := c.Store.GetHabit(ref); err == nil {
		return habit, nil
	}
	habits, err := c.Store.GetAllHabits(true)
	if err != nil {
		return models.Habit{}, err
	}
	for _, habit := range habits {
		if habit.Title == ref {
			return habit, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit not found: %s", ref)
}

// FindGoal resolves a goal by ID or exact title.
func (c *Context) FindGoal(ref string) (models.Goal, error) {
	if goal, err := c.Store.GetGoal(ref); err == nil {
		return goal, nil
	}
	goals, err := c.Store.GetAllGoals()
	if err != nil {
		return models.Goal{}, err
	}
	for _, goal := range goals {
		if goal.Title == ref {
			return goal, nil
		}
	}
	return models.Goal{}, fmt.Errorf("goal not found: %s", ref)
}

// FindTask resolves a task by ID or exact title.
func (c *Context) FindTask(ref string) (models.Task, error) {
	if task, err := c.Store.GetTask(ref); err == nil {
		return task, nil
	}
	tasks, err := c.Store.GetAllTasks()
	if err != nil {
		return models.Task{}, err
	}
	for _, task := range tasks {
		if task.Title == ref {
			return task, nil
		}
	}
	return models.Task{}, fmt.Errorf("task not found: %s", ref)
}
