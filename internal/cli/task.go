package cli

import (
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

type TaskAddCmd struct {
	Title     string `arg:"" help:"Task title."`
	Recurring string `short:"r" help:"Recurrence (none|daily|weekly|monthly)." default:"none" enum:"none,daily,weekly,monthly"`
	Days      string `short:"w" help:"Comma-separated weekdays for weekly tasks."`
	Start     string `short:"s" help:"Scheduled start time (HH:MM)."`
	End       string `short:"e" help:"Scheduled end time (HH:MM)."`
	Category  string `short:"c" help:"Category label."`
	Priority  string `short:"p" help:"Priority (low|medium|high)." default:"medium" enum:"low,medium,high"`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	task := models.Task{
		Title:     c.Title,
		Recurring: constants.Recurring(c.Recurring),
		StartTime: c.Start,
		EndTime:   c.End,
		Category:  c.Category,
		Priority:  constants.Priority(c.Priority),
	}

	if c.Days != "" {
		days, err := ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		task.Days = days
	}

	created, err := ctx.Tracker.CreateTask(task)
	if err != nil {
		return err
	}

	fmt.Printf("Added task %q (%s)\n", created.Title, created.ID)
	return nil
}

type TaskListCmd struct{}

func (c *TaskListCmd) Run(ctx *Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	today := ctx.Config.Today(time.Now())
	for _, task := range tasks {
		mark := " "
		if task.CompletedOn(today, ctx.Config.DayOf(task.CreatedAt)) {
			mark = "x"
		}
		schedule := ""
		if task.StartTime != "" {
			schedule = " " + task.StartTime
			if task.EndTime != "" {
				schedule += "-" + task.EndTime
			}
		}
		fmt.Printf("[%s] %s (%s, %s)%s\n", mark, task.Title, task.Recurring, task.Priority, schedule)
	}

	return nil
}

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task ID or title."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.ToggleTask(task.ID)
	if err != nil {
		return err
	}

	today := ctx.Config.Today(time.Now())
	if updated.CompletedOn(today, ctx.Config.DayOf(updated.CreatedAt)) {
		fmt.Printf("Completed %q\n", updated.Title)
	} else {
		fmt.Printf("Unmarked %q\n", updated.Title)
	}
	return nil
}
