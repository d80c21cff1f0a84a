package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/cli"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/errors"
	"github.com/strideapp/stride/internal/events"
	"github.com/strideapp/stride/internal/keyring"
	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path or PostgreSQL connection string. Use 'postgres' to read the connection string from the OS keyring." type:"path" default:"~/.config/stride/stride.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize stride storage."`
	Settings cli.SettingsCmd `cmd:"" help:"Show or change application settings."`
	Habit    struct {
		Add     cli.HabitAddCmd     `cmd:"" help:"Add a new habit."`
		List    cli.HabitListCmd    `cmd:"" help:"List habits." default:"1"`
		Done    cli.HabitDoneCmd    `cmd:"" help:"Toggle today's completion for a habit."`
		Slip    cli.HabitSlipCmd    `cmd:"" help:"Record a slip for a quit habit."`
		Link    cli.HabitLinkCmd    `cmd:"" help:"Link or unlink a habit and a goal."`
		Archive cli.HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	} `cmd:"" help:"Manage habits."`
	Goal struct {
		Add  cli.GoalAddCmd  `cmd:"" help:"Add a new goal."`
		List cli.GoalListCmd `cmd:"" help:"List goals." default:"1"`
		Done cli.GoalDoneCmd `cmd:"" help:"Toggle a goal's completion."`
	} `cmd:"" help:"Manage goals."`
	Task struct {
		Add  cli.TaskAddCmd  `cmd:"" help:"Add a new task."`
		List cli.TaskListCmd `cmd:"" help:"List tasks." default:"1"`
		Done cli.TaskDoneCmd `cmd:"" help:"Toggle today's completion for a task."`
	} `cmd:"" help:"Manage tasks."`
	Stats     cli.StatsCmd     `cmd:"" help:"Show analytics reports."`
	Recompute cli.RecomputeCmd `cmd:"" help:"Recompute goal metrics."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive habit board." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal productivity analytics for habits, goals, and tasks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store, err := selectStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	// The init command bootstraps its own storage.
	isInit := ctx.Selected() != nil && ctx.Selected().Name == "init"
	if !isInit {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	cfg := calendar.Default()
	if !isInit {
		if settings, err := store.GetSettings(); err == nil {
			if loaded, err := calendar.Load(settings.Timezone); err == nil {
				cfg = loaded
			} else {
				logger.Warn("falling back to UTC", "error", err)
			}
		}
	}

	var evLog events.Logger
	if logger.Logger != nil {
		evLog = logger.Logger
	}
	dispatcher := events.NewDispatcher(store, cfg, nil, evLog)
	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		Tracker:    tracker.New(store, cfg, dispatcher, nil),
		Dispatcher: dispatcher,
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
	if err := store.Close(); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
}

// selectStore picks the storage backend from the config value: an explicit
// postgres connection string, the keyword "postgres" (connection string from
// the OS keyring), or a file path (JSON or SQLite by extension).
func selectStore(config string) (storage.Provider, error) {
	switch {
	case strings.HasPrefix(config, "postgres://"), strings.HasPrefix(config, "postgresql://"):
		return storage.NewPostgresStore(config), nil
	case config == "postgres" || filepath.Base(config) == "postgres":
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("no connection string in keyring: %w", err)
		}
		return storage.NewPostgresStore(connStr), nil
	default:
		return storage.NewProvider(config), nil
	}
}
