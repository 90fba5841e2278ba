package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/repository"
)

var (
	// ErrAmbiguousRef is returned when a trip reference matches several trips.
	ErrAmbiguousRef = errors.New("ambiguous trip reference")
	// ErrLLMDisabled is returned by model-backed use cases when no client is wired.
	ErrLLMDisabled = errors.New("LLM features are disabled (set ITINERA_LLM_ENABLED=true or OPENAI_API_KEY)")
)

type TripService interface {
	Create(ctx context.Context, t *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	// Resolve finds a trip by short id, full id or unique id prefix.
	Resolve(ctx context.Context, ref string) (*domain.Trip, error)
	List(ctx context.Context) ([]repository.TripSummary, error)
	Rename(ctx context.Context, id, name string) (*domain.Trip, error)
	Delete(ctx context.Context, id string) error
	SaveItinerary(ctx context.Context, id string, it domain.Itinerary) (*domain.Trip, error)
	SetStartDate(ctx context.Context, id string, start *time.Time) (*domain.Trip, error)
	// Generate asks the model for a new itinerary and stores it as a new trip.
	Generate(ctx context.Context, prefs domain.TripPrefs, name, shortID string) (*domain.Trip, error)
	// Refine rewrites a trip's itinerary from a change request. On any
	// failure the stored trip is left as it was.
	Refine(ctx context.Context, id, request string) (*domain.Trip, error)
	// Edit applies commands in order and saves the result if anything changed.
	Edit(ctx context.Context, id string, cmds ...itinerary.Command) (*domain.Trip, error)
}
