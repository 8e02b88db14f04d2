// Package sweep drives the periodic matching pass: enumerate recent active
// reports, evaluate each one, and hand accepted matches to the notifier.
package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type reportRepo interface {
	ListActiveIDs(ctx context.Context, createdAfter time.Time) ([]uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
}

type evaluator interface {
	EvaluateReport(ctx context.Context, reportID uuid.UUID) ([]domain.MatchCandidate, error)
}

type notifier interface {
	NotifyMatches(ctx context.Context, source *domain.Report, matches []domain.MatchCandidate) int
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service runs one full matching pass over all eligible reports.
type Service struct {
	log       *slog.Logger
	reports   reportRepo
	evaluator evaluator
	notifier  notifier
	cfg       config.MatchingConfig
}

// NewService creates a new Sweep service.
func NewService(logger *slog.Logger, reports reportRepo, evaluator evaluator, notifier notifier, cfg config.MatchingConfig) *Service {
	return &Service{
		log:       logger.With("service", "sweep"),
		reports:   reports,
		evaluator: evaluator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Run evaluates every active report created within the recency window,
// sequentially. A failure on one report is logged and never aborts the pass;
// only listing failures and context cancellation stop the sweep.
func (s *Service) Run(ctx context.Context) error {
	started := time.Now()
	cutoff := started.Add(-s.cfg.RecencyWindow)

	ids, err := s.reports.ListActiveIDs(ctx, cutoff)
	if err != nil {
		return err
	}

	evaluated, notified := 0, 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		matches, err := s.evaluator.EvaluateReport(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.log.Error("report evaluation failed", "report_id", id, "error", err)
			continue
		}
		evaluated++
		if len(matches) == 0 {
			continue
		}

		rep, err := s.reports.GetByID(ctx, id)
		if err != nil {
			s.log.Error("reload report for notification failed", "report_id", id, "error", err)
			continue
		}
		notified += s.notifier.NotifyMatches(ctx, rep, matches)
	}

	s.log.Info("sweep completed",
		"reports", len(ids),
		"evaluated", evaluated,
		"pairs_notified", notified,
		"duration", time.Since(started))
	return nil
}
