// Package report implements the Report repository using PostgreSQL.
// Candidate selection builds its WHERE clause dynamically with squirrel;
// the remaining queries are raw SQL constants.
package report

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pawtrail/petmatch-backend/internal/adapter/postgres"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// Repo provides report persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new report repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const getByIDSQL = `
SELECT id, user_id, kind, photo, species, breed, gender, size, coat, city,
       chip_number, active, created_at
FROM reports
WHERE id = $1`

const insertSQL = `
INSERT INTO reports (id, user_id, kind, photo, species, breed, gender, size,
                     coat, city, chip_number, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, user_id, kind, photo, species, breed, gender, size, coat, city,
          chip_number, active, created_at`

const listActiveIDsSQL = `
SELECT id
FROM reports
WHERE active AND created_at > $1
ORDER BY created_at`

const deactivateSQL = `
UPDATE reports SET active = FALSE WHERE id = $1`

// GetByID returns a report by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)
	rep, err := scanReport(row)
	if err != nil {
		return nil, postgres.MapError(err, "report", id)
	}

	return rep, nil
}

// Create inserts a new report and returns the persisted row.
func (r *Repo) Create(ctx context.Context, rep *domain.Report) (*domain.Report, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, insertSQL,
		rep.ID, rep.UserID, rep.Kind, rep.Photo, rep.Species, rep.Breed,
		rep.Gender, rep.Size, rep.Coat, rep.City, rep.ChipNumber,
		rep.Active, rep.CreatedAt,
	)
	created, err := scanReport(row)
	if err != nil {
		return nil, postgres.MapError(err, "report", rep.ID)
	}

	return created, nil
}

// ListCandidates returns id+photo of all active reports matching the filter:
// the given kind, city and species, excluding one report id. City and species
// are exact-match hard filters. No eligible rows is not an error.
func (r *Repo) ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateImage, error) {
	query, args, err := psql.
		Select("id", "photo").
		From("reports").
		Where(sq.Eq{
			"kind":    f.Kind,
			"city":    f.City,
			"species": f.Species,
			"active":  true,
		}).
		Where(sq.NotEq{"id": f.ExcludeID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates for report %s: %w", f.ExcludeID, err)
	}
	defer rows.Close()

	candidates := []domain.CandidateImage{}
	for rows.Next() {
		var c domain.CandidateImage
		if err := rows.Scan(&c.ReportID, &c.Photo); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

// ListActiveIDs returns ids of active reports created after the given
// threshold, oldest first. This drives one sweep.
func (r *Repo) ListActiveIDs(ctx context.Context, createdAfter time.Time) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActiveIDsSQL, createdAfter)
	if err != nil {
		return nil, fmt.Errorf("list active reports: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active reports: %w", err)
	}

	return ids, nil
}

// Deactivate flips the active flag off. The row and its notification history
// are preserved; the report just stops participating in matching.
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deactivateSQL, id)
	if err != nil {
		return postgres.MapError(err, "report", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Kind, &rep.Photo, &rep.Species, &rep.Breed,
		&rep.Gender, &rep.Size, &rep.Coat, &rep.City, &rep.ChipNumber,
		&rep.Active, &rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
