package cli

import (
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

type GoalAddCmd struct {
	Title    string `arg:"" help:"Goal title."`
	Target   string `short:"t" help:"Target date (YYYY-MM-DD)." required:""`
	Priority string `short:"p" help:"Priority (low|medium|high)." default:"medium" enum:"low,medium,high"`
	Category string `short:"c" help:"Category label."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	target, err := time.ParseInLocation(constants.DateFormat, c.Target, ctx.Config.Location)
	if err != nil {
		return fmt.Errorf("invalid target date (expected YYYY-MM-DD): %w", err)
	}

	goal := models.Goal{
		Title:      c.Title,
		TargetDate: target,
		Priority:   constants.Priority(c.Priority),
		Category:   c.Category,
	}

	created, err := ctx.Tracker.CreateGoal(goal)
	if err != nil {
		return err
	}

	fmt.Printf("Added goal %q (%s), due %s\n", created.Title, created.ID, c.Target)
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *Context) error {
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	for _, goal := range goals {
		fmt.Printf("%s [%s] %d%% (missed %d, streak %d/%d, due %s)\n",
			goal.Title, goal.Status, goal.Progress, goal.MissedDays,
			goal.CurrentStreak, goal.LongestStreak,
			ctx.Config.DayOf(goal.TargetDate))
	}

	return nil
}

type GoalDoneCmd struct {
	Goal string `arg:"" help:"Goal ID or title."`
}

func (c *GoalDoneCmd) Run(ctx *Context) error {
	goal, err := ctx.FindGoal(c.Goal)
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.ToggleGoalCompletion(goal.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s is now %s (%d%%)\n", updated.Title, updated.Status, updated.Progress)
	return nil
}
