// Package session persists per-conversation intake FSM state.
// The draft report is stored as a jsonb column; photo bytes inside the draft
// are base64-encoded by encoding/json automatically.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pawtrail/petmatch-backend/internal/adapter/postgres"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// Repo provides intake session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new intake session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT chat_id, state, draft, updated_at FROM intake_sessions WHERE chat_id = $1`

const putSQL = `
INSERT INTO intake_sessions (chat_id, state, draft, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (chat_id) DO UPDATE
SET state = EXCLUDED.state, draft = EXCLUDED.draft, updated_at = EXCLUDED.updated_at`

const deleteSQL = `
DELETE FROM intake_sessions WHERE chat_id = $1`

// Get returns the intake session for a chat, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, chatID int64) (*domain.IntakeSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		s     domain.IntakeSession
		draft []byte
	)
	err := querier.QueryRow(ctx, getSQL, chatID).Scan(&s.ChatID, &s.State, &draft, &s.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "intake_session", chatID)
	}

	if err := json.Unmarshal(draft, &s.Draft); err != nil {
		return nil, fmt.Errorf("intake_session %d: decode draft: %w", chatID, err)
	}

	return &s, nil
}

// Put upserts the session for a chat.
func (r *Repo) Put(ctx context.Context, s *domain.IntakeSession) error {
	draft, err := json.Marshal(s.Draft)
	if err != nil {
		return fmt.Errorf("intake_session %d: encode draft: %w", s.ChatID, err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, putSQL, s.ChatID, s.State, draft, time.Now().UTC()); err != nil {
		return postgres.MapError(err, "intake_session", s.ChatID)
	}

	return nil
}

// Delete removes the session for a chat. Deleting a missing session is a no-op.
func (r *Repo) Delete(ctx context.Context, chatID int64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, deleteSQL, chatID); err != nil {
		return postgres.MapError(err, "intake_session", chatID)
	}

	return nil
}
