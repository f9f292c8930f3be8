package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_ProfileRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewUserRepo(database, db.DialectSQLite)
	ctx := context.Background()

	u := testutil.NewTestUser("Anna")
	require.NoError(t, repo.UpsertUser(ctx, u))

	got, err := repo.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, *got)

	u.DisplayName = "Anna K."
	require.NoError(t, repo.UpsertUser(ctx, u))
	got, err = repo.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna K.", got.DisplayName)
}

func TestUserRepo_UnknownUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewUserRepo(database, db.DialectSQLite)
	ctx := context.Background()

	_, err := repo.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := repo.Profile(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)

	pers, err := repo.Personalization(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, pers)

	vs, err := repo.Vehicles(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestUserRepo_VehiclesDefaultFirst(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewUserRepo(database, db.DialectSQLite)
	ctx := context.Background()

	u := testutil.NewTestUser("Bence")
	require.NoError(t, repo.UpsertUser(ctx, u))
	require.NoError(t, repo.UpsertVehicle(ctx, testutil.NewTestVehicle(u.ID, "AAA111", false)))
	require.NoError(t, repo.UpsertVehicle(ctx, testutil.NewTestVehicle(u.ID, "ZZZ999", true)))

	vs, err := repo.Vehicles(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "ZZZ999", vs[0].LicensePlate)
	assert.True(t, vs[0].IsDefault)

	// Same plate again updates in place.
	again := testutil.NewTestVehicle(u.ID, "AAA111", false)
	again.Nickname = "családi"
	require.NoError(t, repo.UpsertVehicle(ctx, again))
	vs, err = repo.Vehicles(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "családi", vs[1].Nickname)
}

func TestUserRepo_Personalization(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewUserRepo(database, db.DialectSQLite)
	ctx := context.Background()

	u := testutil.NewTestUser("Csilla")
	require.NoError(t, repo.UpsertUser(ctx, u))
	require.NoError(t, repo.UpsertPersonalization(ctx, domain.PersonalizationProfile{
		UserID:    u.ID,
		Interests: map[string]int{"food": 4, "events": 7},
		Traits:    []string{"foodie"},
	}))

	p, err := repo.Personalization(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, map[string]int{"food": 4, "events": 7}, p.Interests)
	assert.Equal(t, []string{"foodie"}, p.Traits)
}

func TestUserRepo_RecentInteractionsNewestFirst(t *testing.T) {
	database := testutil.NewTestDB(t)
	users := NewUserRepo(database, db.DialectSQLite)
	log := NewInteractionRepo(database, db.DialectSQLite)
	ctx := context.Background()

	base := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	for i, q := range []string{"első", "második", "harmadik"} {
		require.NoError(t, log.WriteInteraction(ctx, domain.Interaction{
			ID:           q,
			UserID:       "u1",
			Query:        q,
			Intent:       "info",
			ResponseText: "ok",
			Confidence:   0.8,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, log.WriteInteraction(ctx, domain.Interaction{ID: "other", UserID: "u2", Query: "x", Intent: "info", ResponseText: "ok", CreatedAt: base}))

	got, err := users.RecentInteractions(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "harmadik", got[0].Query)
	assert.Equal(t, "második", got[1].Query)
	assert.Equal(t, base.Add(2*time.Minute), got[0].CreatedAt)
}
