// Package rollover recomputes goal metrics when the civil day changes.
// Metrics like missedDays only move once a day has fully passed, so a
// nightly recompute keeps stored values fresh without waiting for the next
// user mutation.
package rollover

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/events"
	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/storage"
)

// Schedule fires shortly after midnight so the previous day is settled.
const Schedule = "5 0 * * *"

// Runner owns the cron scheduler for nightly recomputes.
type Runner struct {
	store      storage.Provider
	dispatcher *events.Dispatcher
	cron       *cron.Cron
}

// New builds a Runner whose schedule ticks in the configured timezone.
func New(store storage.Provider, dispatcher *events.Dispatcher, cfg calendar.Config) *Runner {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		store:      store,
		dispatcher: dispatcher,
		cron:       cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the nightly job and starts the scheduler.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(Schedule, r.RecomputeAll); err != nil {
		return err
	}
	r.cron.Start()
	logger.Info("rollover scheduler started", "schedule", Schedule)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// RecomputeAll refreshes metrics for every active goal. Failures on one
// goal are logged and do not stop the sweep.
func (r *Runner) RecomputeAll() {
	goals, err := r.store.GetAllGoals()
	if err != nil {
		logger.Error("rollover: failed to list goals", "error", err)
		return
	}

	for _, goal := range goals {
		if goal.Status != constants.GoalActive {
			continue
		}
		if err := r.dispatcher.Dispatch(events.DayRolledOver{GoalID: goal.ID}); err != nil {
			logger.Error("rollover: goal recompute failed", "goal", goal.ID, "error", err)
		}
	}
	logger.Debug("rollover sweep complete", "goals", len(goals))
}
