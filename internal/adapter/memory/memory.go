// Package memory provides map-backed implementations of the storage
// interfaces, returning the same domain sentinels as the postgres adapters.
// Used by service tests and suitable for local experiments without a
// database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// SessionStore keeps intake sessions keyed by chat id.
type SessionStore struct {
	mu       sync.RWMutex
	byChatID map[int64]domain.IntakeSession
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{byChatID: make(map[int64]domain.IntakeSession)}
}

func (s *SessionStore) Get(ctx context.Context, chatID int64) (*domain.IntakeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byChatID[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := sess
	return &out, nil
}

func (s *SessionStore) Put(ctx context.Context, sess *domain.IntakeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byChatID[sess.ChatID] = *sess
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byChatID, chatID)
	return nil
}

// UserStore keeps users keyed by id with a chat id index.
type UserStore struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]domain.User
	byChatID map[int64]uuid.UUID
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:     make(map[uuid.UUID]domain.User),
		byChatID: make(map[int64]uuid.UUID),
	}
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *UserStore) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byChatID[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *UserStore) GetOrCreateByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byChatID[chatID]; ok {
		u := s.byID[id]
		return &u, nil
	}

	u := domain.User{ID: uuid.New(), ChatID: chatID, CreatedAt: time.Now().UTC()}
	s.byID[u.ID] = u
	s.byChatID[chatID] = u.ID
	out := u
	return &out, nil
}

// ReportStore keeps reports keyed by id.
type ReportStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.Report
}

// NewReportStore creates an empty report store.
func NewReportStore() *ReportStore {
	return &ReportStore{byID: make(map[uuid.UUID]domain.Report)}
}

func (s *ReportStore) Create(ctx context.Context, rep *domain.Report) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rep.ID]; exists {
		return nil, domain.ErrAlreadyExists
	}

	// CreatedAt is stored verbatim, matching the postgres repo: callers stamp
	// it, the store never backfills.
	stored := *rep
	s.byID[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *ReportStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rep
	return &out, nil
}

// ListCandidates returns id+photo of active reports matching the filter.
func (s *ReportStore) ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CandidateImage
	for _, rep := range s.byID {
		if !rep.Active || rep.ID == f.ExcludeID {
			continue
		}
		if rep.Kind != f.Kind || rep.City != f.City || rep.Species != f.Species {
			continue
		}
		out = append(out, domain.CandidateImage{ReportID: rep.ID, Photo: rep.Photo})
	}
	return out, nil
}

// ListActiveIDs returns ids of active reports created after the cutoff.
func (s *ReportStore) ListActiveIDs(ctx context.Context, createdAfter time.Time) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []uuid.UUID
	for _, rep := range s.byID {
		if rep.Active && rep.CreatedAt.After(createdAfter) {
			out = append(out, rep.ID)
		}
	}
	return out, nil
}

// All returns every stored report, in no particular order.
func (s *ReportStore) All() []domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Report, 0, len(s.byID))
	for _, rep := range s.byID {
		out = append(out, rep)
	}
	return out
}

// NotificationStore keeps ledger entries keyed by the unordered report pair.
type NotificationStore struct {
	mu     sync.RWMutex
	byPair map[pairKey]domain.MatchNotification
}

type pairKey struct {
	lo, hi uuid.UUID
}

func newPairKey(a, b uuid.UUID) pairKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// NewNotificationStore creates an empty ledger.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{byPair: make(map[pairKey]domain.MatchNotification)}
}

func (s *NotificationStore) Exists(ctx context.Context, sourceID, matchedID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byPair[newPairKey(sourceID, matchedID)]
	return ok, nil
}

func (s *NotificationStore) Insert(ctx context.Context, n *domain.MatchNotification) (*domain.MatchNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := newPairKey(n.SourceReportID, n.MatchedReportID)
	if _, exists := s.byPair[key]; exists {
		return nil, domain.ErrAlreadyExists
	}

	stored := *n
	s.byPair[key] = stored
	out := stored
	return &out, nil
}

// All returns every ledger entry, in no particular order.
func (s *NotificationStore) All() []domain.MatchNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MatchNotification, 0, len(s.byPair))
	for _, n := range s.byPair {
		out = append(out, n)
	}
	return out
}

// NopTxManager satisfies the transaction interface without transactional
// semantics; map stores commit each write immediately.
type NopTxManager struct{}

func (NopTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
