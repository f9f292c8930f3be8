package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/repository"
	"github.com/alexanderramin/cityguide/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_WritesEverything(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	im := New(testutil.NewTestUoW(database), db.DialectSQLite, time.UTC, nil)

	seed := validMinimalSeed()
	seed.Users[0].Interests = map[string]int{"food": 3}
	sum, err := im.Import(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, Summary{Events: 1, Restaurants: 1, MenuItems: 1, Users: 1, Vehicles: 1}, sum)

	live := repository.NewLiveRepo(database, db.DialectSQLite)
	events, err := live.UpcomingEvents(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Ostromnapok", events[0].Title)

	menu, err := live.SearchMenu(ctx, []string{"gulyas"}, 5)
	require.NoError(t, err)
	require.Len(t, menu, 1)

	users := repository.NewUserRepo(database, db.DialectSQLite)
	uid := SeedID("user", "anna")
	vehicles, err := users.Vehicles(ctx, uid)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.True(t, vehicles[0].IsDefault)
	p, err := users.Personalization(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Interests["food"])
}

func TestImport_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	im := New(testutil.NewTestUoW(database), db.DialectSQLite, time.UTC, nil)

	_, err := im.Import(ctx, validMinimalSeed())
	require.NoError(t, err)
	seed := validMinimalSeed()
	seed.Restaurants[0].Menu[0].PriceHUF = 2600
	_, err = im.Import(ctx, seed)
	require.NoError(t, err)

	var n, price int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*), MAX(price_huf) FROM menu_items`).Scan(&n, &price))
	assert.Equal(t, 1, n)
	assert.Equal(t, 2600, price)
}

func TestImport_InvalidSeedWritesNothing(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	im := New(testutil.NewTestUoW(database), db.DialectSQLite, time.UTC, nil)

	seed := validMinimalSeed()
	seed.Restaurants[0].Tier = "platinum"
	_, err := im.Import(ctx, seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid seed")

	assert.Zero(t, testutil.CountRows(t, database, "events"))
}

func TestImport_RollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	// The menu item is written after the event and the restaurant.
	uow := &testutil.FaultyUoW{DB: database, FailOn: 1, Match: "menu_items", Err: boom}
	im := New(uow, db.DialectSQLite, time.UTC, nil)

	_, err := im.Import(ctx, validMinimalSeed())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, uow.Execs)

	for _, table := range []string{"events", "restaurants", "menu_items", "users"} {
		assert.Zero(t, testutil.CountRows(t, database, table), table)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
restaurants:
  - ref: bk
    name: Bécsi Kapu
`), 0o644))

	database := testutil.NewTestDB(t)
	im := New(testutil.NewTestUoW(database), db.DialectSQLite, time.UTC, nil)
	sum, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Restaurants)

	_, err = im.ImportFile(context.Background(), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
