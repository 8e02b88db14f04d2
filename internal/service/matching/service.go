// Package matching evaluates a single report against its candidate set and
// returns the matches worth acting on, ranked by visual similarity.
package matching

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
	"github.com/pawtrail/petmatch-backend/internal/imaging"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type reportRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateImage, error)
}

type embedder interface {
	Embed(ctx context.Context, img image.Image) ([]float32, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the match evaluation logic.
type Service struct {
	log      *slog.Logger
	reports  reportRepo
	embedder embedder
	cfg      config.MatchingConfig
}

// NewService creates a new Matching service.
func NewService(logger *slog.Logger, reports reportRepo, embedder embedder, cfg config.MatchingConfig) *Service {
	return &Service{
		log:      logger.With("service", "matching"),
		reports:  reports,
		embedder: embedder,
		cfg:      cfg,
	}
}

// EvaluateReport compares one report against every comparable counterpart and
// returns candidates at or above the comparability threshold, best first.
//
// A missing, inactive, or undecodable source report yields an empty result
// with no error. Candidates with unreadable photos are skipped individually.
// An embedding failure on the source aborts the evaluation since no candidate
// can be scored without it.
func (s *Service) EvaluateReport(ctx context.Context, reportID uuid.UUID) ([]domain.MatchCandidate, error) {
	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report %s: %w", reportID, err)
	}
	if !rep.Active {
		return nil, nil
	}

	srcImg, err := imaging.Decode(rep.Photo)
	if err != nil {
		s.log.Warn("source photo undecodable, skipping report",
			"report_id", reportID, "error", err)
		return nil, nil
	}

	candidates, err := s.reports.ListCandidates(ctx, domain.CandidateFilter{
		Kind:      rep.Kind.Opposite(),
		City:      rep.City,
		Species:   rep.Species,
		ExcludeID: rep.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates for report %s: %w", reportID, err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	srcVec, err := s.embedder.Embed(ctx, srcImg)
	if err != nil {
		return nil, fmt.Errorf("embed report %s: %w", reportID, err)
	}

	vectors := make([]CandidateVector, 0, len(candidates))
	for _, c := range candidates {
		img, err := imaging.Decode(c.Photo)
		if err != nil {
			s.log.Warn("candidate photo undecodable, skipping",
				"report_id", reportID, "candidate_id", c.ReportID, "error", err)
			continue
		}
		vec, err := s.embedder.Embed(ctx, img)
		if err != nil {
			s.log.Warn("candidate embedding failed, skipping",
				"report_id", reportID, "candidate_id", c.ReportID, "error", err)
			continue
		}
		vectors = append(vectors, CandidateVector{ID: c.ReportID, Vector: vec})
	}

	ranked := Rank(srcVec, vectors)

	accepted := ranked[:0]
	for _, m := range ranked {
		if m.Score >= s.cfg.ComparabilityThreshold {
			accepted = append(accepted, m)
		}
	}
	if len(accepted) == 0 {
		return nil, nil
	}
	return accepted, nil
}
