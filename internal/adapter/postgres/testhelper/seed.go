package testhelper

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// SeedUser creates a user bound to a random chat id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:        uuid.New(),
		ChatID:    rand.Int64N(1 << 40),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, chat_id, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.ChatID, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// ReportOpt mutates a report before it is inserted by SeedReport.
type ReportOpt func(*domain.Report)

// WithKind sets the report kind.
func WithKind(k domain.ReportKind) ReportOpt {
	return func(r *domain.Report) { r.Kind = k }
}

// WithCity sets the report city.
func WithCity(city string) ReportOpt {
	return func(r *domain.Report) { r.City = city }
}

// WithSpecies sets the report species.
func WithSpecies(species string) ReportOpt {
	return func(r *domain.Report) { r.Species = species }
}

// WithPhoto sets the photo bytes.
func WithPhoto(photo []byte) ReportOpt {
	return func(r *domain.Report) { r.Photo = photo }
}

// WithActive sets the active flag.
func WithActive(active bool) ReportOpt {
	return func(r *domain.Report) { r.Active = active }
}

// WithCreatedAt sets the creation timestamp.
func WithCreatedAt(ts time.Time) ReportOpt {
	return func(r *domain.Report) { r.CreatedAt = ts }
}

// SeedReport creates a report for the given user. Defaults: lost dog in
// "springfield", active, created now; override via opts.
func SeedReport(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, opts ...ReportOpt) domain.Report {
	t.Helper()
	ctx := context.Background()

	rep := domain.Report{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.ReportKindLost,
		Photo:     []byte{0xff, 0xd8, 0xff, 0xdb}, // placeholder bytes, not decodable
		Species:   "dog",
		Breed:     "mixed",
		Gender:    domain.GenderUnknown,
		Size:      domain.SizeMedium,
		Coat:      domain.CoatShort,
		City:      "springfield",
		Active:    true,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, opt := range opts {
		opt(&rep)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO reports (id, user_id, kind, photo, species, breed, gender, size,
		                      coat, city, chip_number, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rep.ID, rep.UserID, rep.Kind, rep.Photo, rep.Species, rep.Breed,
		rep.Gender, rep.Size, rep.Coat, rep.City, rep.ChipNumber,
		rep.Active, rep.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReport insert: %v", err)
	}

	return rep
}
