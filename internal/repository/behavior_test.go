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

func sampleBehavior() domain.BehaviorProfile {
	return domain.BehaviorProfile{
		Ignored:   map[domain.TriggerCategory]bool{domain.TriggerDinner: true},
		Accepted:  map[domain.TriggerCategory]int{domain.TriggerEvent: 2},
		LastShown: time.Date(2026, 5, 2, 19, 0, 0, 0, time.UTC),
	}
}

func TestSQLBehaviorStore_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := NewSQLBehaviorStore(database, db.DialectSQLite)
	ctx := context.Background()

	empty, err := store.LoadBehavior(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, empty.LastShown.IsZero())

	require.NoError(t, store.SaveBehavior(ctx, "sess", sampleBehavior()))
	got, err := store.LoadBehavior(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, got.Ignored[domain.TriggerDinner])
	assert.Equal(t, 2, got.Accepted[domain.TriggerEvent])
	assert.True(t, got.LastShown.Equal(sampleBehavior().LastShown))

	p := sampleBehavior()
	p.Ignored[domain.TriggerRain] = true
	require.NoError(t, store.SaveBehavior(ctx, "sess", p))
	got, err = store.LoadBehavior(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, got.Ignored[domain.TriggerRain])
}

func TestSQLBehaviorStore_PostgresUpsert(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	store := NewSQLBehaviorStore(conn, db.DialectPostgres)

	mock.ExpectExec(`INSERT INTO behavior_profiles \(session_id, profile, updated_at\)\s+VALUES \(\$1, \$2, \$3\)`).
		WithArgs("sess", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.SaveBehavior(context.Background(), "sess", sampleBehavior()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBehaviorStore_CorruptProfile(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := database.Exec(`INSERT INTO behavior_profiles (session_id, profile, updated_at) VALUES ('bad', 'not json', '2026-05-02T10:00:00Z')`)
	require.NoError(t, err)

	_, err = NewSQLBehaviorStore(database, db.DialectSQLite).LoadBehavior(context.Background(), "bad")
	assert.Error(t, err)
}

// TestRedisBehaviorStore_Integration requires a running Redis.
// We skip if connection fails.
func TestRedisBehaviorStore_Integration(t *testing.T) {
	client := NewRedisClient("localhost:6379", "", 0)
	defer client.Close()
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	store := NewRedisBehaviorStore(client, "cityguide-test:", time.Minute)
	id := "sess-" + time.Now().Format("150405.000000")
	defer client.Del(ctx, store.key(id))

	empty, err := store.LoadBehavior(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, empty.Ignored)

	require.NoError(t, store.SaveBehavior(ctx, id, sampleBehavior()))
	got, err := store.LoadBehavior(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Ignored[domain.TriggerDinner])

	ttl, err := client.TTL(ctx, store.key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisBehaviorStore_DefaultPrefix(t *testing.T) {
	store := NewRedisBehaviorStore(nil, "", 0)
	assert.Equal(t, "cityguide:behavior:abc", store.key("abc"))
}
