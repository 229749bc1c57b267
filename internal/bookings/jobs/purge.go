package jobs

import (
	"context"
	"fmt"
	"time"

	"camrent/pkg/config"
	"camrent/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Purger deletes rejected bookings past their retention window.
type Purger interface {
	PurgeExpiredRejections(ctx context.Context) (int64, error)
}

// Scheduler runs the retention purge on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	purger  Purger
	log     *logger.Logger
	timeout time.Duration
}

// NewScheduler registers the purge job. The schedule is interpreted in loc
// and uses the same parser options as config validation.
func NewScheduler(purger Purger, schedule string, loc *time.Location, timeout time.Duration, log *logger.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cron.NewParser(config.CronParseOptions)),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		purger:  purger,
		log:     log,
		timeout: timeout,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("register purge job %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce performs a single purge. Failures are logged; the next tick retries.
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := s.purger.PurgeExpiredRejections(ctx)
	if err != nil {
		s.log.Error("Rejected booking purge failed", "error", err, "duration", time.Since(start))
		return
	}
	s.log.Debug("Rejected booking purge finished", "deleted", n, "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.log.Info("Starting purge scheduler")
	s.cron.Start()
}

// Stop waits for a running purge to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Purge scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Purge scheduler did not stop in time", "error", ctx.Err())
	}
}

// Next reports when the purge will run next. Zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
