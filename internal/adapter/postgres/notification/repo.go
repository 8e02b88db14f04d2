// Package notification implements the match-notification ledger using
// PostgreSQL. Uniqueness of the unordered report pair is enforced by a unique
// expression index on (LEAST(source, matched), GREATEST(source, matched)),
// not by an application-level check-then-insert, so the at-most-once guarantee
// holds even if sweeps ever run concurrently.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pawtrail/petmatch-backend/internal/adapter/postgres"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// Repo provides ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const existsSQL = `
SELECT EXISTS (
    SELECT 1 FROM notifications
    WHERE LEAST(source_report_id, matched_report_id) = LEAST($1::uuid, $2::uuid)
      AND GREATEST(source_report_id, matched_report_id) = GREATEST($1::uuid, $2::uuid)
)`

const insertSQL = `
INSERT INTO notifications (id, source_report_id, matched_report_id, similarity, notified_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, source_report_id, matched_report_id, similarity, notified_at`

const listByReportSQL = `
SELECT id, source_report_id, matched_report_id, similarity, notified_at
FROM notifications
WHERE source_report_id = $1 OR matched_report_id = $1
ORDER BY notified_at`

// Exists reports whether the ledger already holds an entry for the unordered
// (source, matched) pair, regardless of which side was treated as source.
func (r *Repo) Exists(ctx context.Context, sourceID, matchedID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := querier.QueryRow(ctx, existsSQL, sourceID, matchedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s/%s: %w", sourceID, matchedID, err)
	}

	return exists, nil
}

// Insert records a notified pair. A duplicate unordered pair maps to
// domain.ErrAlreadyExists via the unique index; callers treat that as
// "already notified", not a failure.
func (r *Repo) Insert(ctx context.Context, n *domain.MatchNotification) (*domain.MatchNotification, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var out domain.MatchNotification
	err := querier.QueryRow(ctx, insertSQL,
		n.ID, n.SourceReportID, n.MatchedReportID, n.Similarity, n.NotifiedAt,
	).Scan(&out.ID, &out.SourceReportID, &out.MatchedReportID, &out.Similarity, &out.NotifiedAt)
	if err != nil {
		return nil, postgres.MapError(err, "notification", n.ID)
	}

	return &out, nil
}

// ListByReport returns every ledger entry involving the given report,
// oldest first. History survives report deactivation.
func (r *Repo) ListByReport(ctx context.Context, reportID uuid.UUID) ([]domain.MatchNotification, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByReportSQL, reportID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for report %s: %w", reportID, err)
	}
	defer rows.Close()

	entries := []domain.MatchNotification{}
	for rows.Next() {
		var n domain.MatchNotification
		if err := rows.Scan(&n.ID, &n.SourceReportID, &n.MatchedReportID, &n.Similarity, &n.NotifiedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		entries = append(entries, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return entries, nil
}
