package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/geo"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/service"
)

// App holds the services used by CLI commands. Model-backed services are
// nil when no LLM is configured; commands that need them say so.
type App struct {
	Trips        service.TripService
	Generator    intelligence.GenerateService
	Refiner      intelligence.RefineService
	Events       intelligence.EventService
	Alternatives intelligence.AlternativesService
	Geocoder     geo.Geocoder

	ShareBaseURL string
	Logger       *slog.Logger

	// API server settings used by "serve".
	ServeAddr         string
	AllowedOrigins    []string
	RequestsPerMinute int

	// IsInteractive reports whether stdin is a terminal. Forms, spinners
	// and the editor only run when it returns true.
	IsInteractive func() bool
	// Now is the clock used for relative dates and calendar stamps.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// NewRootCmd creates the top-level "itinera" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "itinera",
		Short:         "Plan, edit and share trip itineraries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTripCmd(app),
		newDayCmd(app),
		newActivityCmd(app),
		newPlaceCmd(app),
		newEventsCmd(app),
		newAlternativesCmd(app),
		newExportCmd(app),
		newShareCmd(app),
		newEditCmd(app),
		newServeCmd(app),
	)

	return root
}
