package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/itinera/internal/db"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertTripTx(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO trips (id, name, created_at, updated_at)
		VALUES (?, 'Trip', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`, id)
	return err
}

func tripExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM trips WHERE id = ?`, id).Scan(&n))
	return n > 0
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTripTx(ctx, tx, "t1")
	})
	require.NoError(t, err)
	assert.True(t, tripExists(t, database, "t1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTripTx(ctx, tx, "t2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, tripExists(t, database, "t2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertTripTx(ctx, tx, "t3")
			panic("boom")
		})
	})
	assert.False(t, tripExists(t, database, "t3"), "row should not exist after panic rollback")
}

func TestWithinTx_CascadeInsideTx(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTripTx(ctx, tx, "t4"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO trip_days (trip_id, id, title) VALUES ('t4', 'd1', 'Day')`)
		return err
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM trip_days WHERE trip_id = 't4'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestUnitOfWorkFunc_Delegates(t *testing.T) {
	database, inner := openUoW(t)
	var calls int
	var uow db.UnitOfWork = db.UnitOfWorkFunc(func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
		calls++
		return inner.WithinTx(ctx, fn)
	})

	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTripTx(ctx, tx, "t9")
	}))
	assert.Equal(t, 1, calls)
	assert.True(t, tripExists(t, database, "t9"))
}
