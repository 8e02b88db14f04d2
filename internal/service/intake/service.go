// Package intake implements the conversational report-submission flow as an
// explicit per-chat state machine. Every answer advances the persisted
// session one state; completion creates the report row and clears the
// session.
package intake

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type sessionRepo interface {
	Get(ctx context.Context, chatID int64) (*domain.IntakeSession, error)
	Put(ctx context.Context, s *domain.IntakeSession) error
	Delete(ctx context.Context, chatID int64) error
}

type userRepo interface {
	GetOrCreateByChatID(ctx context.Context, chatID int64) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type reportRepo interface {
	Create(ctx context.Context, rep *domain.Report) (*domain.Report, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type messenger interface {
	Send(ctx context.Context, chatID int64, text string, actions []domain.Action) error
	SendReplyKeyboard(ctx context.Context, chatID int64, text string, buttons []string) error
	SendRemoveKeyboard(ctx context.Context, chatID int64, text string) error
}

type fileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the intake conversation logic.
type Service struct {
	log       *slog.Logger
	sessions  sessionRepo
	users     userRepo
	reports   reportRepo
	tx        txManager
	messenger messenger
	files     fileDownloader
}

// NewService creates a new Intake service.
func NewService(
	logger *slog.Logger,
	sessions sessionRepo,
	users userRepo,
	reports reportRepo,
	tx txManager,
	messenger messenger,
	files fileDownloader,
) *Service {
	return &Service{
		log:       logger.With("service", "intake"),
		sessions:  sessions,
		users:     users,
		reports:   reports,
		tx:        tx,
		messenger: messenger,
		files:     files,
	}
}
