// Package notify turns accepted matches into exactly-once notifications to
// both reporting parties, backed by a persistent pair ledger.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type notificationRepo interface {
	Exists(ctx context.Context, sourceID, matchedID uuid.UUID) (bool, error)
	Insert(ctx context.Context, n *domain.MatchNotification) (*domain.MatchNotification, error)
}

type reportRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type messenger interface {
	Send(ctx context.Context, chatID int64, text string, actions []domain.Action) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the notification protocol: reserve the pair in the
// ledger, dispatch to both parties, commit. A failed dispatch rolls the
// reservation back so the next sweep retries the pair.
type Service struct {
	log           *slog.Logger
	notifications notificationRepo
	reports       reportRepo
	users         userRepo
	tx            txManager
	messenger     messenger
	cfg           config.MatchingConfig
}

// NewService creates a new Notify service.
func NewService(
	logger *slog.Logger,
	notifications notificationRepo,
	reports reportRepo,
	users userRepo,
	tx txManager,
	messenger messenger,
	cfg config.MatchingConfig,
) *Service {
	return &Service{
		log:           logger.With("service", "notify"),
		notifications: notifications,
		reports:       reports,
		users:         users,
		tx:            tx,
		messenger:     messenger,
		cfg:           cfg,
	}
}

// NotifyMatches processes ranked matches for one source report. Matches below
// the notification threshold and pairs already in the ledger are skipped.
// Failures on one pair are logged and do not block the remaining pairs.
// Returns the number of pairs notified in this call.
func (s *Service) NotifyMatches(ctx context.Context, source *domain.Report, matches []domain.MatchCandidate) int {
	notified := 0
	for _, m := range matches {
		if m.Score < s.cfg.NotificationThreshold {
			continue
		}

		err := s.notifyPair(ctx, source, m)
		switch {
		case err == nil:
			notified++
		case errors.Is(err, domain.ErrAlreadyExists):
			// Pair raced into the ledger since our pre-check. Already handled.
		default:
			s.log.Error("pair notification failed, will retry next sweep",
				"source_id", source.ID, "matched_id", m.ReportID, "error", err)
		}
	}
	return notified
}

func (s *Service) notifyPair(ctx context.Context, source *domain.Report, m domain.MatchCandidate) error {
	exists, err := s.notifications.Exists(ctx, source.ID, m.ReportID)
	if err != nil {
		return fmt.Errorf("check ledger for pair (%s, %s): %w", source.ID, m.ReportID, err)
	}
	if exists {
		return nil
	}

	matched, err := s.reports.GetByID(ctx, m.ReportID)
	if err != nil {
		return fmt.Errorf("get matched report %s: %w", m.ReportID, err)
	}

	sourceOwner, err := s.users.GetByID(ctx, source.UserID)
	if err != nil {
		return fmt.Errorf("get owner of report %s: %w", source.ID, err)
	}
	matchedOwner, err := s.users.GetByID(ctx, matched.UserID)
	if err != nil {
		return fmt.Errorf("get owner of report %s: %w", matched.ID, err)
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		entry, err := s.notifications.Insert(ctx, &domain.MatchNotification{
			ID:              uuid.New(),
			SourceReportID:  source.ID,
			MatchedReportID: m.ReportID,
			Similarity:      m.Score,
			NotifiedAt:      time.Now().UTC(),
		})
		if err != nil {
			// ErrAlreadyExists passes through for the caller to classify.
			return fmt.Errorf("reserve pair (%s, %s): %w", source.ID, m.ReportID, err)
		}

		if err := s.dispatch(ctx, sourceOwner.ChatID, source.Kind, m.Score, matchedOwner.ID, entry.ID); err != nil {
			return err
		}
		if err := s.dispatch(ctx, matchedOwner.ChatID, matched.Kind, m.Score, sourceOwner.ID, entry.ID); err != nil {
			return err
		}

		s.log.Info("pair notified",
			"source_id", source.ID, "matched_id", m.ReportID,
			"similarity", m.Score, "notification_id", entry.ID)
		return nil
	})
}

func (s *Service) dispatch(ctx context.Context, chatID int64, kind domain.ReportKind, score float64, otherUserID, notificationID uuid.UUID) error {
	var text string
	switch kind {
	case domain.ReportKindLost:
		text = fmt.Sprintf("Possible match: a found pet report looks %.0f%% similar to your lost pet.", score*100)
	default:
		text = fmt.Sprintf("Possible match: the pet you found looks %.0f%% similar to a reported lost pet.", score*100)
	}

	actions := []domain.Action{
		{Label: "Show contacts", Data: "reveal:" + otherUserID.String()},
		{Label: "Dismiss", Data: "dismiss:" + notificationID.String()},
	}
	if err := s.messenger.Send(ctx, chatID, text, actions); err != nil {
		return fmt.Errorf("%w: chat %d: %v", domain.ErrDispatchFailed, chatID, err)
	}
	return nil
}
