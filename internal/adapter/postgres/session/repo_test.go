package session_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/petmatch-backend/internal/adapter/postgres/session"
	"github.com/pawtrail/petmatch-backend/internal/adapter/postgres/testhelper"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

func TestRepo_PutGetRoundTrip(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)
	ctx := context.Background()

	chatID := rand.Int64N(1 << 40)
	chip := "900215001234567"

	in := &domain.IntakeSession{
		ChatID: chatID,
		State:  domain.IntakeStateCity,
		Draft: domain.ReportDraft{
			Kind:       domain.ReportKindLost,
			Photo:      []byte{0x89, 0x50, 0x4e, 0x47},
			Species:    "parrot",
			Breed:      "cockatiel",
			Gender:     domain.GenderMale,
			Size:       domain.SizeSmall,
			Coat:       domain.CoatNone,
			ChipNumber: &chip,
		},
	}
	require.NoError(t, repo.Put(ctx, in))

	got, err := repo.Get(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntakeStateCity, got.State)
	assert.Equal(t, domain.ReportKindLost, got.Draft.Kind)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, got.Draft.Photo)
	assert.Equal(t, "parrot", got.Draft.Species)
	require.NotNil(t, got.Draft.ChipNumber)
	assert.Equal(t, chip, *got.Draft.ChipNumber)
}

func TestRepo_Put_Upserts(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)
	ctx := context.Background()

	chatID := rand.Int64N(1 << 40)

	require.NoError(t, repo.Put(ctx, &domain.IntakeSession{
		ChatID: chatID,
		State:  domain.IntakeStatePhoto,
		Draft:  domain.ReportDraft{Kind: domain.ReportKindFound},
	}))

	require.NoError(t, repo.Put(ctx, &domain.IntakeSession{
		ChatID: chatID,
		State:  domain.IntakeStateSpecies,
		Draft:  domain.ReportDraft{Kind: domain.ReportKindFound, Species: "cat"},
	}))

	got, err := repo.Get(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntakeStateSpecies, got.State)
	assert.Equal(t, "cat", got.Draft.Species)
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := session.New(pool)
	ctx := context.Background()

	chatID := rand.Int64N(1 << 40)

	require.NoError(t, repo.Put(ctx, &domain.IntakeSession{
		ChatID: chatID,
		State:  domain.IntakeStateKind,
	}))
	require.NoError(t, repo.Delete(ctx, chatID))

	_, err := repo.Get(ctx, chatID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, chatID))
}
