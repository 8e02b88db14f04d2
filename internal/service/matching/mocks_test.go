package matching

import (
	"context"
	"image"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

var _ reportRepo = &reportRepoMock{}

type reportRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListCandidatesFunc func(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateImage, error)

	listCandidatesCalls int
}

func (m *reportRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	if m.GetByIDFunc == nil {
		panic("reportRepoMock.GetByIDFunc: method is nil but reportRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *reportRepoMock) ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateImage, error) {
	if m.ListCandidatesFunc == nil {
		panic("reportRepoMock.ListCandidatesFunc: method is nil but reportRepo.ListCandidates was just called")
	}
	m.listCandidatesCalls++
	return m.ListCandidatesFunc(ctx, f)
}

var _ embedder = &embedderMock{}

type embedderMock struct {
	EmbedFunc func(ctx context.Context, img image.Image) ([]float32, error)

	embedCalls int
}

func (m *embedderMock) Embed(ctx context.Context, img image.Image) ([]float32, error) {
	if m.EmbedFunc == nil {
		panic("embedderMock.EmbedFunc: method is nil but embedder.Embed was just called")
	}
	m.embedCalls++
	return m.EmbedFunc(ctx, img)
}
