package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/testutil"
)

const romeText = `Day 1: Arrival
- Check in
- Dinner in Trastevere

Day 2: Ancient Rome
- Colosseum
- Roman Forum`

type fakeGenerator struct {
	text  string
	err   error
	prefs domain.TripPrefs
}

func (f *fakeGenerator) Generate(_ context.Context, prefs domain.TripPrefs) (string, error) {
	f.prefs = prefs
	return f.text, f.err
}

type fakeRefiner struct {
	text    string
	err     error
	current string
	request string
}

func (f *fakeRefiner) Refine(_ context.Context, current, request string) (string, error) {
	f.current, f.request = current, request
	return f.text, f.err
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

type fixture struct {
	db        *sql.DB
	svc       TripService
	repo      repository.TripRepo
	generator *fakeGenerator
	refiner   *fakeRefiner
	observer  *recordingObserver
}

func setup(t *testing.T) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := fixture{
		db:        database,
		repo:      repository.NewSQLiteTripRepo(database),
		generator: &fakeGenerator{text: romeText},
		refiner:   &fakeRefiner{},
		observer:  &recordingObserver{},
	}
	f.svc = NewTripService(f.repo, testutil.NewTestUoW(database), f.generator, f.refiner, f.observer)
	return f
}

func TestTripService_Create_DerivesShortID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := &domain.Trip{Name: "Rome weekend"}
	require.NoError(t, f.svc.Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "ROMEW01", first.ShortID)

	second := &domain.Trip{Name: "Rome weekend"}
	require.NoError(t, f.svc.Create(ctx, second))
	assert.Equal(t, "ROMEW02", second.ShortID)

	short := &domain.Trip{Name: "Oz"}
	require.NoError(t, f.svc.Create(ctx, short))
	assert.Equal(t, "OZX01", short.ShortID)
}

func TestTripService_Create_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.Error(t, f.svc.Create(ctx, &domain.Trip{Name: "  "}))
	assert.Error(t, f.svc.Create(ctx, &domain.Trip{Name: "Rome", ShortID: "rome"}))
	assert.Error(t, f.svc.Create(ctx, &domain.Trip{Name: "Rome", Prefs: domain.TripPrefs{Pace: "frantic"}}))

	dup := domain.Itinerary{Days: []domain.Day{{ID: "d"}, {ID: "d"}}}
	assert.Error(t, f.svc.Create(ctx, &domain.Trip{Name: "Rome", Itinerary: dup}))

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTripService_Resolve(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip := &domain.Trip{ID: "abc12345-0000", Name: "Rome", ShortID: "ROME01"}
	require.NoError(t, f.svc.Create(ctx, trip))
	other := &domain.Trip{ID: "abd99999-0000", Name: "Paris", ShortID: "PARIS01"}
	require.NoError(t, f.svc.Create(ctx, other))

	for _, ref := range []string{"ROME01", "rome01", "abc12345-0000", "abc1", "ABC1"} {
		got, err := f.svc.Resolve(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, trip.ID, got.ID, ref)
	}

	_, err := f.svc.Resolve(ctx, "ab")
	assert.ErrorIs(t, err, ErrAmbiguousRef)

	_, err = f.svc.Resolve(ctx, "zzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.svc.Resolve(ctx, " ")
	assert.Error(t, err)
}

func TestTripService_Generate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	prefs := domain.TripPrefs{Countries: []string{" Italy "}, Pace: "Relaxed", Days: 2}
	trip, err := f.svc.Generate(ctx, prefs, "", "")
	require.NoError(t, err)

	assert.Equal(t, "Trip to Italy", trip.Name)
	assert.Equal(t, "TRIPT01", trip.ShortID)
	assert.Equal(t, domain.PaceRelaxed, f.generator.prefs.Pace, "prefs are normalized before the model call")
	assert.Equal(t, romeText, trip.RawText)
	require.Len(t, trip.Itinerary.Days, 2)
	assert.Equal(t, "Ancient Rome", trip.Itinerary.Days[1].Title)

	stored, err := f.svc.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.Itinerary, stored.Itinerary)
	assert.Equal(t, []string{"Italy"}, stored.Prefs.Countries)

	require.NotEmpty(t, f.observer.events)
	last := f.observer.events[len(f.observer.events)-1]
	assert.Equal(t, "generate-trip", last.Name)
	assert.True(t, last.Success())
	assert.Equal(t, trip.ID, last.TripID)
	assert.Equal(t, 4, last.Fields["parsed_activities"])
}

func TestTripService_Generate_Failures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.generator.err = intelligence.ErrEmptyItinerary
	_, err := f.svc.Generate(ctx, domain.TripPrefs{}, "Nothing", "")
	require.ErrorIs(t, err, intelligence.ErrEmptyItinerary)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "a failed generation stores nothing")

	last := f.observer.events[len(f.observer.events)-1]
	assert.False(t, last.Success())
	assert.Empty(t, last.TripID)

	noLLM := NewTripService(f.repo, nil, nil, nil)
	_, err = noLLM.Generate(ctx, domain.TripPrefs{}, "x", "")
	assert.ErrorIs(t, err, ErrLLMDisabled)
	_, err = noLLM.Refine(ctx, "x", "more museums")
	assert.ErrorIs(t, err, ErrLLMDisabled)
}

func TestTripService_Refine(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip, err := f.svc.Generate(ctx, domain.TripPrefs{}, "Rome", "ROME01")
	require.NoError(t, err)

	f.refiner.text = "Day 1: Only day\n- Gelato"
	refined, err := f.svc.Refine(ctx, trip.ID, "make it one day")
	require.NoError(t, err)

	assert.Equal(t, itinerary.Render(trip.Itinerary), f.refiner.current)
	assert.Equal(t, "make it one day", f.refiner.request)
	require.Len(t, refined.Itinerary.Days, 1)
	assert.Equal(t, "Gelato", refined.Itinerary.Days[0].Activities[0].Text)

	stored, err := f.svc.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, refined.Itinerary, stored.Itinerary)
	assert.Equal(t, "Day 1: Only day\n- Gelato", stored.RawText)
}

func TestTripService_Refine_FailureLeavesTripUnchanged(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip, err := f.svc.Generate(ctx, domain.TripPrefs{}, "Rome", "ROME01")
	require.NoError(t, err)

	f.refiner.err = errors.New("model offline")
	_, err = f.svc.Refine(ctx, trip.ID, "more food")
	require.Error(t, err)

	stored, err := f.svc.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.Itinerary, stored.Itinerary)
	assert.Equal(t, romeText, stored.RawText)
}

func TestTripService_Edit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip, err := f.svc.Generate(ctx, domain.TripPrefs{}, "Rome", "ROME01")
	require.NoError(t, err)
	d1, d2 := trip.Itinerary.Days[0], trip.Itinerary.Days[1]

	edited, err := f.svc.Edit(ctx, trip.ID,
		itinerary.RenameDayCmd{DayID: d1.ID, Title: "Landing"},
		itinerary.MoveActivityCmd{FromDayID: d2.ID, FromIndex: 0, ToDayID: d1.ID, ToIndex: 0},
	)
	require.NoError(t, err)
	assert.Equal(t, "Landing", edited.Itinerary.Days[0].Title)
	assert.Equal(t, "Colosseum", edited.Itinerary.Days[0].Activities[0].Text)
	assert.Len(t, edited.Itinerary.Days[1].Activities, 1)

	stored, err := f.svc.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Itinerary, stored.Itinerary)

	last := f.observer.events[len(f.observer.events)-1]
	assert.Equal(t, "edit-trip", last.Name)
	assert.Equal(t, "rename_day,move_activity", last.Fields["commands"])
	assert.Equal(t, true, last.Fields["changed"])
}

func TestTripService_Edit_FailedWriteRollsBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip, err := f.svc.Generate(ctx, domain.TripPrefs{}, "Rome", "ROME01")
	require.NoError(t, err)

	boom := errors.New("disk full")
	failing := NewTripService(f.repo, testutil.NewFailingUoW(f.db, 3, boom), f.generator, f.refiner)
	_, err = failing.Edit(ctx, trip.ID, itinerary.DeleteDayCmd{DayID: trip.Itinerary.Days[0].ID})
	require.ErrorIs(t, err, boom)

	stored, err := f.svc.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.Itinerary, stored.Itinerary)
}

func TestTripService_Edit_NoOpDoesNotWrite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip, err := f.svc.Generate(ctx, domain.TripPrefs{}, "Rome", "ROME01")
	require.NoError(t, err)
	before := len(f.observer.events)

	got, err := f.svc.Edit(ctx, trip.ID, itinerary.DeleteDayCmd{DayID: "missing"})
	require.NoError(t, err)
	assert.Equal(t, trip.Itinerary, got.Itinerary)

	for _, e := range f.observer.events[before:] {
		assert.NotEqual(t, "save-itinerary", e.Name)
	}
}

func TestTripService_SetStartDateAndRename(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip := &domain.Trip{Name: "Lisbon"}
	require.NoError(t, f.svc.Create(ctx, trip))

	start := time.Date(2026, 5, 4, 18, 30, 0, 0, time.FixedZone("X", 3600))
	got, err := f.svc.SetStartDate(ctx, trip.ID, &start)
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2026-05-04", got.StartDate.Format(time.DateOnly))

	got, err = f.svc.SetStartDate(ctx, trip.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)

	got, err = f.svc.Rename(ctx, trip.ID, " Lisbon & Porto ")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon & Porto", got.Name)

	_, err = f.svc.Rename(ctx, trip.ID, "")
	assert.Error(t, err)
	_, err = f.svc.SetStartDate(ctx, "missing", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTripService_SaveItinerary_RejectsDuplicateIDs(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip := &domain.Trip{Name: "Rome"}
	require.NoError(t, f.svc.Create(ctx, trip))

	bad := domain.Itinerary{Days: []domain.Day{
		{ID: "d1", Activities: []domain.Activity{{ID: "a"}}},
		{ID: "d2", Activities: []domain.Activity{{ID: "a"}}},
	}}
	_, err := f.svc.SaveItinerary(ctx, trip.ID, bad)
	require.Error(t, err)

	stored, err := f.svc.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Itinerary.Days)
}

func TestTripService_Delete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	trip := &domain.Trip{Name: "Rome"}
	require.NoError(t, f.svc.Create(ctx, trip))
	require.NoError(t, f.svc.Delete(ctx, trip.ID))

	_, err := f.svc.GetByID(ctx, trip.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, trip.ID), repository.ErrNotFound)
}

func TestSlogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewSlogUseCaseObserver(logger)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:   "edit-trip",
		TripID: "t1",
		Fields: map[string]any{"zeta": 1, "alpha": 2},
	})
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "use_case=edit-trip")
	assert.Contains(t, out, "trip_id=t1")
	assert.Less(t, strings.Index(out, "alpha=2"), strings.Index(out, "zeta=1"))

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "refine-trip", Err: ErrLLMDisabled})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.NotContains(t, buf.String(), "trip_id=")

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "save-itinerary", Err: errors.New("bad")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=bad")

	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}

func TestCombineObservers(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, combineObservers(nil))
	assert.IsType(t, NoopUseCaseObserver{}, combineObservers([]UseCaseObserver{nil}))

	a, b := &recordingObserver{}, &recordingObserver{}
	assert.Same(t, a, combineObservers([]UseCaseObserver{nil, a}))

	combined := combineObservers([]UseCaseObserver{a, nil, b})
	combined.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
