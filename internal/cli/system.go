package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/strideapp/stride/internal/keyring"
	"github.com/strideapp/stride/internal/rollover"
	"github.com/strideapp/stride/internal/tui"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized storage at %s\n", ctx.Store.GetConfigPath())
	return nil
}

type SettingsCmd struct {
	Timezone string `help:"Set the IANA timezone for civil-day boundaries."`
	Premium  string `help:"Enable or disable premium reports (on|off)." enum:",on,off"`
	ConnStr  string `name:"connection-string" help:"Store a PostgreSQL connection string in the OS keyring."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if c.ConnStr != "" {
		if err := keyring.SetConnectionString(c.ConnStr); err != nil {
			return err
		}
		fmt.Println("Stored connection string in OS keyring.")
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	changed := false
	if c.Timezone != "" {
		settings.Timezone = c.Timezone
		changed = true
	}
	if c.Premium != "" {
		settings.Premium = c.Premium == "on"
		changed = true
	}
	if changed {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return err
		}
	}

	fmt.Printf("timezone: %s\npremium: %t\n", settings.Timezone, settings.Premium)
	return nil
}

type RecomputeCmd struct {
	Watch bool `help:"Keep running and recompute nightly after midnight."`
}

func (c *RecomputeCmd) Run(ctx *Context) error {
	runner := rollover.New(ctx.Store, ctx.Dispatcher, ctx.Config)
	runner.RecomputeAll()
	fmt.Println("Recompute complete.")

	if !c.Watch {
		return nil
	}

	if err := runner.Start(); err != nil {
		return err
	}
	defer runner.Stop()
	fmt.Printf("Watching; recomputing on schedule %q. Press Ctrl+C to stop.\n", rollover.Schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	return tui.Run(ctx.Store, ctx.Config, ctx.Tracker)
}
