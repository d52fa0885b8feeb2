// Package scheduler runs the periodic maintenance pass: completing finished
// stays and sweeping expired tentative holds.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type bookingCompleter interface {
	CompleteDueBookings(ctx context.Context) (int, error)
}

type holdSweeper interface {
	SweepExpiredHolds(ctx context.Context) (int64, error)
}

// Scheduler ticks at a fixed interval. Both jobs are hygiene: read paths
// already ignore expired holds, and completion only moves history forward.
type Scheduler struct {
	completer bookingCompleter
	sweeper   holdSweeper
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler.
func New(completer bookingCompleter, sweeper holdSweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		completer: completer,
		sweeper:   sweeper,
		interval:  interval,
		logger:    logger,
	}
}

// Start blocks, running a pass every interval until the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	completed, err := s.completer.CompleteDueBookings(ctx)
	if err != nil {
		s.logger.Error("failed to complete due bookings", zap.Error(err))
	} else if completed > 0 {
		s.logger.Info("completed due bookings", zap.Int("count", completed))
	}

	swept, err := s.sweeper.SweepExpiredHolds(ctx)
	if err != nil {
		s.logger.Error("failed to sweep expired holds", zap.Error(err))
	} else if swept > 0 {
		s.logger.Info("swept expired holds", zap.Int64("count", swept))
	}
}
