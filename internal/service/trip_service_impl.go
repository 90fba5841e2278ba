package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/repository"
)

const maxShortIDSuffix = 9999

type tripService struct {
	trips     repository.TripRepo
	uow       db.UnitOfWork
	generator intelligence.GenerateService
	refiner   intelligence.RefineService
	observer  UseCaseObserver
}

// NewTripService wires the trip use cases. generator and refiner may be nil,
// in which case Generate and Refine return ErrLLMDisabled.
func NewTripService(
	trips repository.TripRepo,
	uow db.UnitOfWork,
	generator intelligence.GenerateService,
	refiner intelligence.RefineService,
	observers ...UseCaseObserver,
) TripService {
	return &tripService{
		trips:     trips,
		uow:       uow,
		generator: generator,
		refiner:   refiner,
		observer:  combineObservers(observers),
	}
}

func (s *tripService) observe(ctx context.Context, name, tripID string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		TripID:    tripID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       err,
		Fields:    fields,
	})
}

func (s *tripService) Create(ctx context.Context, t *domain.Trip) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("trip name is required")
	}
	if t.ShortID == "" {
		id, err := s.nextShortID(ctx, t.Name)
		if err != nil {
			return err
		}
		t.ShortID = id
	}
	if err := t.ValidateShortID(); err != nil {
		return err
	}
	if err := t.Prefs.Validate(); err != nil {
		return err
	}
	if err := t.Itinerary.ValidateIDs(); err != nil {
		return fmt.Errorf("invalid itinerary: %w", err)
	}
	if t.Itinerary.Days == nil {
		t.Itinerary.Days = []domain.Day{}
	}
	now := time.Now().UTC().Truncate(time.Second)
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTripRepo(tx).Create(ctx, t)
	})
}

func (s *tripService) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	return s.trips.GetByID(ctx, id)
}

func (s *tripService) Resolve(ctx context.Context, ref string) (*domain.Trip, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("trip reference is required")
	}
	if t, err := s.trips.GetByShortID(ctx, ref); err == nil {
		return t, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if t, err := s.trips.GetByID(ctx, ref); err == nil {
		return t, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ids, err := s.trips.FindByIDPrefix(ctx, strings.ToLower(ref))
	if err != nil {
		return nil, err
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("trip %q: %w", ref, repository.ErrNotFound)
	case 1:
		return s.trips.GetByID(ctx, ids[0])
	default:
		return nil, fmt.Errorf("%w: %q matches %d trips", ErrAmbiguousRef, ref, len(ids))
	}
}

func (s *tripService) List(ctx context.Context) ([]repository.TripSummary, error) {
	return s.trips.List(ctx)
}

func (s *tripService) Rename(ctx context.Context, id, name string) (*domain.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("trip name is required")
	}
	return s.updateMeta(ctx, id, func(t *domain.Trip) { t.Name = name })
}

func (s *tripService) Delete(ctx context.Context, id string) error {
	return s.trips.Delete(ctx, id)
}

func (s *tripService) SetStartDate(ctx context.Context, id string, start *time.Time) (*domain.Trip, error) {
	if start != nil {
		d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		start = &d
	}
	return s.updateMeta(ctx, id, func(t *domain.Trip) { t.StartDate = start })
}

func (s *tripService) updateMeta(ctx context.Context, id string, mutate func(*domain.Trip)) (*domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(t)
	t.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if err := s.trips.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tripService) SaveItinerary(ctx context.Context, id string, it domain.Itinerary) (trip *domain.Trip, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"days": len(it.Days), "activities": it.ActivityCount()}
	defer func() { s.observe(ctx, "save-itinerary", id, startedAt, fields, err) }()

	if err = it.ValidateIDs(); err != nil {
		return nil, fmt.Errorf("invalid itinerary: %w", err)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTrips := repository.NewSQLiteTripRepo(tx)
		if err := txTrips.SaveItinerary(ctx, id, it); err != nil {
			return err
		}
		trip, err = txTrips.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *tripService) Generate(ctx context.Context, prefs domain.TripPrefs, name, shortID string) (trip *domain.Trip, err error) {
	startedAt := time.Now().UTC()
	prefs = prefs.Normalize()
	fields := map[string]any{"days": prefs.Days, "pace": string(prefs.Pace)}
	defer func() {
		var id string
		if trip != nil {
			id = trip.ID
		}
		s.observe(ctx, "generate-trip", id, startedAt, fields, err)
	}()

	if s.generator == nil {
		return nil, ErrLLMDisabled
	}
	if err = prefs.Validate(); err != nil {
		return nil, err
	}

	var text string
	text, err = s.generator.Generate(ctx, prefs)
	if err != nil {
		return nil, err
	}
	it := itinerary.Parse(text)
	fields["parsed_days"] = len(it.Days)
	fields["parsed_activities"] = it.ActivityCount()

	if strings.TrimSpace(name) == "" {
		name = defaultTripName(prefs)
	}
	trip = &domain.Trip{
		ShortID:   shortID,
		Name:      name,
		Prefs:     prefs,
		Itinerary: it,
		RawText:   text,
	}
	if err = s.Create(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *tripService) Refine(ctx context.Context, id, request string) (trip *domain.Trip, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"request_len": len(request)}
	defer func() { s.observe(ctx, "refine-trip", id, startedAt, fields, err) }()

	if s.refiner == nil {
		return nil, ErrLLMDisabled
	}
	trip, err = s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var text string
	text, err = s.refiner.Refine(ctx, itinerary.Render(trip.Itinerary), request)
	if err != nil {
		return nil, err
	}
	next := itinerary.Parse(text)
	fields["parsed_days"] = len(next.Days)

	trip.Itinerary = next
	trip.RawText = text
	trip.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTrips := repository.NewSQLiteTripRepo(tx)
		if err := txTrips.Update(ctx, trip); err != nil {
			return err
		}
		return txTrips.SaveItinerary(ctx, trip.ID, next)
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *tripService) Edit(ctx context.Context, id string, cmds ...itinerary.Command) (trip *domain.Trip, err error) {
	startedAt := time.Now().UTC()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name()
	}
	fields := map[string]any{"commands": strings.Join(names, ",")}
	defer func() { s.observe(ctx, "edit-trip", id, startedAt, fields, err) }()

	trip, err = s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := itinerary.ApplyAll(trip.Itinerary, cmds...)
	changed := itinerary.Changed(trip.Itinerary, next)
	fields["changed"] = changed
	if !changed {
		return trip, nil
	}
	return s.SaveItinerary(ctx, id, next)
}

// nextShortID derives an unused short id from the trip name: up to five
// letters followed by a two to four digit counter (ROME01, ROME02, ...).
func (s *tripService) nextShortID(ctx context.Context, name string) (string, error) {
	var letters []byte
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, byte(r))
			if len(letters) == 5 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	for n := 1; n <= maxShortIDSuffix; n++ {
		candidate := fmt.Sprintf("%s%02d", letters, n)
		_, err := s.trips.GetByShortID(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free short id for %q (use --id)", name)
}

func defaultTripName(p domain.TripPrefs) string {
	switch {
	case len(p.PrioritizedCities) > 0:
		return "Trip to " + strings.Join(p.PrioritizedCities, ", ")
	case len(p.Countries) > 0:
		return "Trip to " + strings.Join(p.Countries, ", ")
	default:
		return "My trip"
	}
}
