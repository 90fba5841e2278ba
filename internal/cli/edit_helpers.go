package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/itinerary"
)

// renameLastDayCmd titles the most recently appended day. It lets "day add"
// name a day whose id is only minted when AddDayCmd runs.
type renameLastDayCmd struct {
	Title string
}

func (renameLastDayCmd) Name() string { return "rename_day" }
func (c renameLastDayCmd) Apply(it domain.Itinerary) domain.Itinerary {
	if len(it.Days) == 0 {
		return it
	}
	return itinerary.RenameDay(it, it.Days[len(it.Days)-1].ID, c.Title)
}

// applyEdit saves cmds against the trip and prints the affected day. A batch
// that changes nothing is reported and not written.
func applyEdit(cmd *cobra.Command, app *App, t *domain.Trip, summary string, cmds ...itinerary.Command) (*domain.Trip, error) {
	if !itinerary.Changed(t.Itinerary, itinerary.ApplyAll(t.Itinerary, cmds...)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
		return t, nil
	}
	updated, err := app.Trips.Edit(cmd.Context(), t.ID, cmds...)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return updated, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

func validateTimeFlag(name, v string) error {
	if v == "" || domain.ValidClock(v) {
		return nil
	}
	return fmt.Errorf("--%s %q must be HH:MM", name, v)
}
