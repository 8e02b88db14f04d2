// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pawtrail/petmatch-backend/internal/adapter/postgres"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, chat_id, created_at FROM users WHERE id = $1`

const getByChatIDSQL = `
SELECT id, chat_id, created_at FROM users WHERE chat_id = $1`

// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
const getOrCreateSQL = `
INSERT INTO users (id, chat_id, created_at)
VALUES ($1, $2, now())
ON CONFLICT (chat_id) DO UPDATE SET chat_id = EXCLUDED.chat_id
RETURNING id, chat_id, created_at`

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// GetByChatID returns a user by external chat handle.
func (r *Repo) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getByChatIDSQL, chatID))
	if err != nil {
		return nil, postgres.MapError(err, "user", chatID)
	}
	return u, nil
}

// GetOrCreateByChatID returns the user bound to the chat handle, creating the
// row on first contact. Safe under concurrent registration of the same chat.
func (r *Repo) GetOrCreateByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getOrCreateSQL, uuid.New(), chatID))
	if err != nil {
		return nil, postgres.MapError(err, "user", chatID)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.ChatID, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
