package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewUnitOfWork(database), database
}

func insertEvent(ctx context.Context, tx db.DBTX, id, title string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, title, starts_at) VALUES (?, ?, '2026-05-02T17:30:00Z')`, id, title)
	return err
}

func eventTitles(t *testing.T, database *sql.DB) []string {
	t.Helper()
	rows, err := database.Query(`SELECT title FROM events ORDER BY title`)
	require.NoError(t, err)
	defer rows.Close()
	var titles []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		titles = append(titles, s)
	}
	require.NoError(t, rows.Err())
	return titles
}

func TestWithinTx_CommitsAllWrites(t *testing.T) {
	uow, database := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertEvent(ctx, tx, "e1", "Esti koncert"); err != nil {
			return err
		}
		return insertEvent(ctx, tx, "e2", "Ostromnapok")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Esti koncert", "Ostromnapok"}, eventTitles(t, database))
}

func TestWithinTx_ErrorRollsBackEarlierWrites(t *testing.T) {
	uow, database := newUoW(t)
	boom := errors.New("restaurant write failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insertEvent(ctx, tx, "e1", "Esti koncert"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, eventTitles(t, database))
}

func TestWithinTx_ConstraintViolationRollsBack(t *testing.T) {
	uow, database := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insertEvent(ctx, tx, "e1", "Esti koncert"))
		return insertEvent(ctx, tx, "e1", "Duplicate id")
	})
	require.Error(t, err)
	assert.Empty(t, eventTitles(t, database))
}

func TestWithinTx_PanicRollsBackAndRepanics(t *testing.T) {
	uow, database := newUoW(t)

	assert.PanicsWithValue(t, "importer bug", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			require.NoError(t, insertEvent(ctx, tx, "e1", "Esti koncert"))
			panic("importer bug")
		})
	})
	assert.Empty(t, eventTitles(t, database))
}

func TestWithinTx_SequentialTransactionsAreIndependent(t *testing.T) {
	uow, database := newUoW(t)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertEvent(ctx, tx, "e1", "Esti koncert")
	}))
	_ = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insertEvent(ctx, tx, "e2", "Ostromnapok"))
		return errors.New("abort")
	})

	assert.Equal(t, []string{"Esti koncert"}, eventTitles(t, database))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	uow, _ := newUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
