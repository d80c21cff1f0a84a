package cli

import (
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

type HabitAddCmd struct {
	Title     string `arg:"" help:"Habit title."`
	Type      string `short:"t" help:"Habit type (build|quit)." default:"build" enum:"build,quit"`
	Frequency string `short:"f" help:"Frequency (daily|weekly|monthly)." default:"daily" enum:"daily,weekly,monthly"`
	Days      string `short:"w" help:"Comma-separated weekdays for weekly habits."`
	Start     string `short:"s" help:"Start date (YYYY-MM-DD, default: today)."`
	Category  string `short:"c" help:"Category label."`
	Icon      string `help:"Icon for the habit."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	habit := models.Habit{
		Title:     c.Title,
		Type:      constants.HabitType(c.Type),
		Frequency: constants.Frequency(c.Frequency),
		Category:  c.Category,
		Icon:      c.Icon,
	}

	if c.Days != "" {
		days, err := ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		habit.Days = days
	}
	if c.Start != "" {
		start, err := time.ParseInLocation(constants.DateFormat, c.Start, ctx.Config.Location)
		if err != nil {
			return fmt.Errorf("invalid start date (expected YYYY-MM-DD): %w", err)
		}
		habit.StartDate = start
	}

	created, err := ctx.Tracker.CreateHabit(habit)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit %q (%s)\n", created.Title, created.ID)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Config.Today(time.Now())
	for _, habit := range habits {
		mark := " "
		for _, d := range habit.Marks() {
			if d == today {
				mark = "x"
				break
			}
		}
		status := ""
		if habit.IsArchived {
			status = " [ARCHIVED]"
		}
		fmt.Printf("[%s] %s (%s, streak %d, best %d)%s\n",
			mark, habit.Title, habit.Frequency, habit.Streak, habit.LongestStreak, status)
	}

	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.ToggleHabit(habit.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s: streak %d, best %d\n", updated.Title, updated.Streak, updated.LongestStreak)
	return nil
}

type HabitSlipCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitSlipCmd) Run(ctx *Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.RecordSlip(habit.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded slip for %q (streak %d)\n", updated.Title, updated.Streak)
	return nil
}

type HabitLinkCmd struct {
	Habit  string `arg:"" help:"Habit ID or title."`
	Goal   string `arg:"" help:"Goal ID or title."`
	Remove bool   `help:"Unlink instead of link."`
}

func (c *HabitLinkCmd) Run(ctx *Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	goal, err := ctx.FindGoal(c.Goal)
	if err != nil {
		return err
	}

	if c.Remove {
		if err := ctx.Tracker.UnlinkHabit(goal.ID, habit.ID); err != nil {
			return err
		}
		fmt.Printf("Unlinked %q from %q\n", habit.Title, goal.Title)
		return nil
	}

	if err := ctx.Tracker.LinkHabit(goal.ID, habit.ID); err != nil {
		return err
	}
	fmt.Printf("Linked %q to %q\n", habit.Title, goal.Title)
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived %q\n", habit.Title)
	return nil
}
