package scheduler

import (
	"context"
	"time"

	"gallery-manager/feature/gallery/reconcile"

	"go.uber.org/zap"
)

// Runner is the reconciliation entry point the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (reconcile.Summary, error)
}

// Scheduler triggers a reconciliation pass at a fixed interval, independent
// of request traffic. Failures are logged and left for the next tick; the
// job itself is the healing mechanism, so a missed pass only widens the
// stale window by one interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger

	// newTicker is injectable so tests can drive ticks synchronously
	// instead of waiting on wall-clock time.
	newTicker func(time.Duration) (<-chan time.Time, func())
}

// New creates a scheduler. An interval of zero or less disables it.
func New(runner Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start launches the periodic loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Periodic reconciliation disabled")
		return
	}
	s.logger.Info("Periodic reconciliation scheduled", zap.Duration("interval", s.interval))
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	ticks, stop := s.newTicker(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			summary, err := s.runner.Run(ctx)
			if err != nil {
				s.logger.Error("Scheduled reconciliation failed", zap.Error(err))
				continue
			}
			if summary.Skipped {
				s.logger.Debug("Scheduled reconciliation skipped")
				continue
			}
			s.logger.Info("Scheduled reconciliation finished",
				zap.Int("created", summary.Created),
				zap.Int("reactivated", summary.Reactivated),
				zap.Int("deactivated", summary.Deactivated),
			)
		}
	}
}
