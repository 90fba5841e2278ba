package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/testutil"
)

func romeItinerary() domain.Itinerary {
	return testutil.NewTestItinerary(
		testutil.NewTestDay("Arrival",
			testutil.WithActivity("Check in", "15:00", ""),
			testutil.WithPlacedActivity("Dinner", domain.Place{Name: "Roscioli", Lat: 41.894, Lng: 12.474, Address: "Via dei Giubbonari"}),
		),
		testutil.NewTestDay("Free day"),
		testutil.NewTestDay("Vatican",
			testutil.WithActivity("Museums", "09:00", "12:30"),
			testutil.WithActivity("St Peter's", "", ""),
		),
	)
}

func createTrip(t *testing.T, database *sql.DB, trip *domain.Trip) {
	t.Helper()
	uow := db.NewSQLiteUnitOfWork(database)
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteTripRepo(tx).Create(ctx, trip)
	})
	require.NoError(t, err)
}

func TestTripRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	prefs := domain.TripPrefs{Pace: domain.PaceRelaxed, Countries: []string{"Italy"}, Days: 3}
	trip := testutil.NewTestTrip("Rome",
		testutil.WithShortID("ROME01"),
		testutil.WithStartDate(start),
		testutil.WithPrefs(prefs),
		testutil.WithItinerary(romeItinerary()),
		testutil.WithRawText("Day 1: Arrival"),
	)
	createTrip(t, database, trip)

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rome", got.Name)
	assert.Equal(t, "ROME01", got.ShortID)
	assert.Equal(t, prefs, got.Prefs)
	assert.Equal(t, "Day 1: Arrival", got.RawText)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2026-09-01", got.StartDate.Format(dateLayout))
	assert.True(t, trip.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, romeItinerary().Days[1].Title, got.Itinerary.Days[1].Title)
	assert.Equal(t, trip.Itinerary, got.Itinerary, "ids, order and places survive a reload")
}

func TestTripRepo_GetByShortID_CaseInsensitive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)

	trip := testutil.NewTestTrip("Kyoto", testutil.WithShortID("KYOTO24"))
	createTrip(t, database, trip)

	got, err := repo.GetByShortID(context.Background(), "kyoto24")
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
}

func TestTripRepo_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByShortID(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "nonexistent"), ErrNotFound)
	assert.ErrorIs(t, repo.SaveItinerary(ctx, "nonexistent", romeItinerary()), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestTrip("Ghost")), ErrNotFound)
}

func TestTripRepo_FindByIDPrefix(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	a := testutil.NewTestTrip("Alpha")
	a.ID = "abc-111"
	b := testutil.NewTestTrip("Beta")
	b.ID = "abd-222"
	createTrip(t, database, a)
	createTrip(t, database, b)

	ids, err := repo.FindByIDPrefix(ctx, "ab")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"abc-111", "abd-222"}, ids)

	ids, err = repo.FindByIDPrefix(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc-111"}, ids)

	ids, err = repo.FindByIDPrefix(ctx, "a_")
	require.NoError(t, err)
	assert.Empty(t, ids, "LIKE wildcards are matched literally")
}

func TestTripRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := testutil.NewTestTrip("First", testutil.WithItinerary(romeItinerary()))
	first.CreatedAt = base
	second := testutil.NewTestTrip("Second")
	second.CreatedAt = base.Add(time.Hour)
	createTrip(t, database, second)
	createTrip(t, database, first)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Trip.Name)
	assert.Equal(t, 3, list[0].DayCount)
	assert.Equal(t, 4, list[0].ActivityCount)
	assert.Empty(t, list[0].Trip.Itinerary.Days, "list rows do not load the itinerary")
	assert.Equal(t, 0, list[1].DayCount)
}

func TestTripRepo_UpdateMetadata(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	trip := testutil.NewTestTrip("Lisbon", testutil.WithItinerary(romeItinerary()))
	createTrip(t, database, trip)

	trip.Name = "Lisbon and Porto"
	trip.StartDate = nil
	trip.RawText = "updated"
	trip.Itinerary = testutil.NewTestItinerary()
	require.NoError(t, repo.Update(ctx, trip))

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon and Porto", got.Name)
	assert.Equal(t, "updated", got.RawText)
	assert.Nil(t, got.StartDate)
	assert.Len(t, got.Itinerary.Days, 3, "Update leaves the itinerary alone")
}

func TestTripRepo_SaveItinerary_ReplacesRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	trip := testutil.NewTestTrip("Rome", testutil.WithItinerary(romeItinerary()))
	createTrip(t, database, trip)

	// Reverse the days and move the first activity to the end of the last day.
	it := trip.Itinerary
	days := []domain.Day{it.Days[2], it.Days[1], it.Days[0]}
	moved := days[2].Activities[0]
	days[2].Activities = days[2].Activities[1:]
	days[0].Activities = append(append([]domain.Activity{}, days[0].Activities...), moved)
	next := domain.Itinerary{Days: days}

	uow := db.NewSQLiteUnitOfWork(database)
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteTripRepo(tx).SaveItinerary(ctx, trip.ID, next)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.Itinerary)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM trip_activities WHERE trip_id = ?`, trip.ID).Scan(&n))
	assert.Equal(t, 4, n, "no orphaned activity rows")
}

func TestTripRepo_SaveItinerary_RollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	trip := testutil.NewTestTrip("Rome", testutil.WithItinerary(romeItinerary()))
	createTrip(t, database, trip)

	boom := errors.New("disk full")
	// Days are already cleared and rewritten when the second activity fails.
	uow := testutil.NewFailingUoWOn(database, "INSERT INTO trip_activities", 2, boom)
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteTripRepo(tx).SaveItinerary(ctx, trip.ID, testutil.NewTestItinerary(
			testutil.NewTestDay("Only", testutil.WithActivity("One", "", ""), testutil.WithActivity("Two", "", "")),
		))
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.Itinerary, got.Itinerary)
}

func TestTripRepo_SameIDsInTwoTrips(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	it := romeItinerary()
	original := testutil.NewTestTrip("Original", testutil.WithItinerary(it))
	imported := testutil.NewTestTrip("Imported", testutil.WithItinerary(it))
	createTrip(t, database, original)
	createTrip(t, database, imported)

	got, err := repo.GetByID(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, it, got.Itinerary)

	require.NoError(t, repo.Delete(ctx, original.ID))
	got, err = repo.GetByID(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, it, got.Itinerary, "deleting one trip leaves the other intact")
}
