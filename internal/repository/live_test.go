package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveRepo_UpcomingEvents(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewLiveRepo(database, db.DialectSQLite)
	ctx := context.Background()
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)

	ended := testutil.NewTestEvent("Reggeli vásár", now.Add(-5*time.Hour), testutil.WithEventEnd(now.Add(-time.Hour)))
	running := testutil.NewTestEvent("Kiállítás", now.Add(-2*time.Hour), testutil.WithEventEnd(now.Add(time.Hour)))
	later := testutil.NewTestEvent("Koncert", now.Add(2*time.Hour))
	old := testutil.NewTestEvent("Tegnapi", now.Add(-48*time.Hour))
	for _, e := range []domain.Event{ended, running, later, old} {
		require.NoError(t, repo.UpsertEvent(ctx, e))
	}

	got, err := repo.UpcomingEvents(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Kiállítás", got[0].Title)
	require.NotNil(t, got[0].EndsAt)
	assert.Equal(t, now.Add(time.Hour), *got[0].EndsAt)
	assert.Equal(t, "Koncert", got[1].Title)
	assert.Nil(t, got[1].EndsAt)
}

func TestLiveRepo_RestaurantsByTier(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewLiveRepo(database, db.DialectSQLite)
	ctx := context.Background()

	require.NoError(t, repo.UpsertRestaurant(ctx, testutil.NewTestRestaurant("Aranykakas")))
	require.NoError(t, repo.UpsertRestaurant(ctx, testutil.NewTestRestaurant("Ezüsthal", testutil.WithTier(domain.TierSilver))))
	require.NoError(t, repo.UpsertRestaurant(ctx, testutil.NewTestRestaurant("Zöld Fenyő", testutil.WithTier(domain.TierGold), testutil.WithPromoted())))
	noTier := testutil.NewTestRestaurant("Bástya")
	noTier.Tier = ""
	require.NoError(t, repo.UpsertRestaurant(ctx, noTier))

	got, err := repo.ListRestaurants(ctx, 10)
	require.NoError(t, err)
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Zöld Fenyő", "Ezüsthal", "Aranykakas", "Bástya"}, names)
	assert.True(t, got[0].Promoted)
	assert.Equal(t, domain.TierStandard, got[3].Tier)

	capped, err := repo.ListRestaurants(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestLiveRepo_SearchMenu(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewLiveRepo(database, db.DialectSQLite)
	ctx := context.Background()

	r := testutil.NewTestRestaurant("Kőszegi Pizzéria", testutil.WithDelivery())
	require.NoError(t, repo.UpsertRestaurant(ctx, r))
	items := []domain.MenuItem{
		testutil.NewTestMenuItem(r.ID, "Gulyásleves", 2400),
		testutil.NewTestMenuItem(r.ID, "Pizza Margherita", 2900),
		testutil.NewTestMenuItem(r.ID, "Pizza Sonkás", 3200),
	}
	soldOut := testutil.NewTestMenuItem(r.ID, "Pizza Különleges", 3900)
	soldOut.Available = false
	items = append(items, soldOut)
	for _, m := range items {
		require.NoError(t, repo.UpsertMenuItem(ctx, m))
	}

	got, err := repo.SearchMenu(ctx, []string{"pizza"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pizza Margherita", got[0].Name)

	got, err = repo.SearchMenu(ctx, []string{"gulyas"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gulyásleves", got[0].Name)

	fallback, err := repo.SearchMenu(ctx, []string{"sushi"}, 2)
	require.NoError(t, err)
	require.Len(t, fallback, 2)
	assert.Equal(t, "Gulyásleves", fallback[0].Name)

	all, err := repo.SearchMenu(ctx, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLiveRepo_MenuItemNeedsRestaurant(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewLiveRepo(database, db.DialectSQLite)

	err := repo.UpsertMenuItem(context.Background(), testutil.NewTestMenuItem("missing", "Lángos", 900))
	assert.Error(t, err)
}

func TestLiveRepo_PostgresPlaceholders(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	repo := NewLiveRepo(conn, db.DialectPostgres)

	rows := sqlmock.NewRows([]string{"id", "name", "cuisine", "address", "phone", "tier", "promoted", "delivery", "lat", "lng"}).
		AddRow("r1", "Zöld Fenyő", "hungarian", "Fő tér 1", "+3694000000", "gold", 1, 0, 47.38, 16.54)
	mock.ExpectQuery(`FROM restaurants\s+ORDER BY .* LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(rows)

	got, err := repo.ListRestaurants(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TierGold, got[0].Tier)
	assert.True(t, got[0].Promoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiveRepo_PostgresMenuSearch(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	repo := NewLiveRepo(conn, db.DialectPostgres)

	mock.ExpectQuery(`name_key LIKE \$1 OR name_key LIKE \$2\)\s+ORDER BY price_huf, id LIMIT \$3`).
		WithArgs("%pizza%", "%leves%", 15).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name", "price_huf", "available"}).
			AddRow("m1", "r1", "Pizza", 2900, 1))

	got, err := repo.SearchMenu(context.Background(), []string{"pizza", "leves"}, 15)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}
