package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type runner interface {
	Run(ctx context.Context) error
}

// Scheduler fires sweeps at a fixed interval. Sweeps run on a single
// goroutine, so two can never overlap; ticks arriving mid-sweep beyond the
// first are dropped. Ledger writes are per-pair transactions, so stopping
// mid-sweep leaves no partial state behind.
type Scheduler struct {
	log      *slog.Logger
	runner   runner
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler around the given sweep runner.
func NewScheduler(logger *slog.Logger, r runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:      logger.With("service", "scheduler"),
		runner:   r,
		interval: interval,
	}
}

// Start launches the sweep loop. The first sweep fires immediately, then one
// per interval. Call Stop to shut down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop cancels the loop and blocks until an in-flight sweep returns.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) sweep(ctx context.Context) {
	if err := s.runner.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("sweep failed", "error", err)
	}
}
