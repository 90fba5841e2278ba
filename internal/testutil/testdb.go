package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/itinera/internal/db"
)

// NewTestDB opens a migrated in-memory database that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewFailingUoW returns a UnitOfWork whose nth write inside a transaction
// fails with err.
func NewFailingUoW(database *sql.DB, n int, err error) db.UnitOfWork {
	return NewFailingUoWOn(database, "", n, err)
}

// NewFailingUoWOn is NewFailingUoW counting only writes whose SQL contains
// match, e.g. "INSERT INTO trip_activities".
func NewFailingUoWOn(database *sql.DB, match string, n int, err error) db.UnitOfWork {
	return &FailingUoW{Inner: db.NewSQLiteUnitOfWork(database), Match: match, N: n, Err: err}
}
