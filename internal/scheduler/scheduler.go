// Package scheduler wraps gocron for the in-process cron jobs (currently
// just the scheduled promo broadcast).
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type Scheduler struct {
	s   gocron.Scheduler
	log *slog.Logger
}

func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return &Scheduler{s: s, log: slog.With("component", "scheduler")}, nil
}

// AddCronJob registers job under a cron expression (UTC).
func (sc *Scheduler) AddCronJob(name, cronExpr string, job func()) error {
	_, err := sc.s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(job),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("scheduling job %q: %w", name, err)
	}
	sc.log.Info("job scheduled", "name", name, "cron", cronExpr)
	return nil
}

// Start begins running registered jobs in the background.
func (sc *Scheduler) Start() {
	sc.s.Start()
}

// Shutdown stops the scheduler and waits for running jobs.
func (sc *Scheduler) Shutdown() error {
	return sc.s.Shutdown()
}
