package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/amishk599/crewboard/internal/poller"
)

// Scheduler owns the main loop: it triggers poll cycles either on a fixed
// interval or on a cron schedule, and runs each category poller sequentially.
type Scheduler struct {
	pollers  []*poller.CategoryPoller
	interval time.Duration
	schedule string // cron spec; takes precedence over interval when set
	logger   *slog.Logger
}

// NewScheduler creates a scheduler for the given pollers. When schedule is
// non-empty it is parsed as a standard cron spec and interval is ignored.
func NewScheduler(pollers []*poller.CategoryPoller, interval time.Duration, schedule string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers:  pollers,
		interval: interval,
		schedule: schedule,
		logger:   logger,
	}
}

// ParseSchedule validates a cron spec (five fields or a descriptor such as
// "@every 30m").
func ParseSchedule(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return sched, nil
}

// Run runs one immediate cycle, then keeps polling until ctx is cancelled.
// It returns nil on graceful shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.schedule != "" {
		return s.runCron(ctx)
	}

	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"categories", len(s.pollers),
	)

	s.pollAll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.pollAll(ctx)
		}
	}
}

func (s *Scheduler) runCron(ctx context.Context) error {
	sched, err := ParseSchedule(s.schedule)
	if err != nil {
		return err
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() { s.pollAll(ctx) }))

	s.logger.Info("starting scheduler",
		"schedule", s.schedule,
		"categories", len(s.pollers),
	)

	s.pollAll(ctx)
	c.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

// pollAll runs Poll on each poller in order. A failing category is logged
// and does not stop the cycle.
func (s *Scheduler) pollAll(ctx context.Context) {
	cycleID := uuid.NewString()
	start := time.Now()
	failed := 0

	for _, p := range s.pollers {
		if ctx.Err() != nil {
			return
		}
		if err := p.Poll(ctx); err != nil {
			failed++
			s.logger.Error("poll failed",
				"cycle_id", cycleID,
				"category", p.Name,
				"error", err,
			)
		}
	}

	s.logger.Info("poll cycle complete",
		"cycle_id", cycleID,
		"categories", len(s.pollers),
		"failed", failed,
		"took", time.Since(start).Round(time.Millisecond).String(),
	)
}
