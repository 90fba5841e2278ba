package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/itinera/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// TripSummary is a list row: trip metadata plus itinerary counts, without
// loading days and activities.
type TripSummary struct {
	Trip          domain.Trip
	DayCount      int
	ActivityCount int
}

type TripRepo interface {
	Create(ctx context.Context, t *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Trip, error)
	FindByIDPrefix(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context) ([]TripSummary, error)
	Update(ctx context.Context, t *domain.Trip) error
	SaveItinerary(ctx context.Context, tripID string, it domain.Itinerary) error
	Delete(ctx context.Context, id string) error
}
