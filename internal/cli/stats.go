package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/analytics"
)

type StatsCmd struct {
	Kind    string `arg:"" help:"Report kind (habit|task|goal)." enum:"habit,task,goal"`
	Premium bool   `help:"Produce the premium report (requires premium in settings)."`
	From    string `help:"Window start (YYYY-MM-DD), premium habit report only."`
	To      string `help:"Window end (YYYY-MM-DD), premium habit report only."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if c.Premium {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		if !settings.Premium {
			return fmt.Errorf("premium reports are disabled; enable with 'stride settings --premium on'")
		}
	}

	now := time.Now()
	var report any
	var err error

	switch c.Kind {
	case "habit":
		habits, herr := ctx.Store.GetAllHabits(true)
		if herr != nil {
			return herr
		}
		if c.Premium {
			report, err = analytics.ComputePremiumHabitStats(habits, ctx.Config, now, analytics.Options{From: c.From, To: c.To})
		} else {
			report = analytics.ComputeBasicHabitStats(habits)
		}
	case "task":
		tasks, terr := ctx.Store.GetAllTasks()
		if terr != nil {
			return terr
		}
		if c.Premium {
			report, err = analytics.ComputePremiumTaskStats(tasks, ctx.Config, now)
		} else {
			report = analytics.ComputeBasicTaskStats(tasks, ctx.Config, now)
		}
	case "goal":
		goals, gerr := ctx.Store.GetAllGoals()
		if gerr != nil {
			return gerr
		}
		if c.Premium {
			report, err = analytics.ComputePremiumGoalStats(goals, ctx.Config, now)
		} else {
			report = analytics.ComputeBasicGoalStats(goals, ctx.Config, now)
		}
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
