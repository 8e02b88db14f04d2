package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	ExistsFunc func(ctx context.Context, sourceID, matchedID uuid.UUID) (bool, error)
	InsertFunc func(ctx context.Context, n *domain.MatchNotification) (*domain.MatchNotification, error)

	insertCalls int
}

func (m *notificationRepoMock) Exists(ctx context.Context, sourceID, matchedID uuid.UUID) (bool, error) {
	if m.ExistsFunc == nil {
		panic("notificationRepoMock.ExistsFunc: method is nil but notificationRepo.Exists was just called")
	}
	return m.ExistsFunc(ctx, sourceID, matchedID)
}

func (m *notificationRepoMock) Insert(ctx context.Context, n *domain.MatchNotification) (*domain.MatchNotification, error) {
	if m.InsertFunc == nil {
		panic("notificationRepoMock.InsertFunc: method is nil but notificationRepo.Insert was just called")
	}
	m.insertCalls++
	return m.InsertFunc(ctx, n)
}

var _ reportRepo = &reportRepoMock{}

type reportRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Report, error)
}

func (m *reportRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	if m.GetByIDFunc == nil {
		panic("reportRepoMock.GetByIDFunc: method is nil but reportRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

// txManagerMock runs the callback without a real transaction and records
// whether it reported failure, standing in for a rollback.
type txManagerMock struct {
	rollbacks int
	commits   int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type sentMessage struct {
	ChatID  int64
	Text    string
	Actions []domain.Action
}

var _ messenger = &messengerMock{}

type messengerMock struct {
	SendFunc func(ctx context.Context, chatID int64, text string, actions []domain.Action) error

	sent []sentMessage
}

func (m *messengerMock) Send(ctx context.Context, chatID int64, text string, actions []domain.Action) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, chatID, text, actions); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, Actions: actions})
	return nil
}
