package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/itinerary"
)

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Add, remove, rename and reorder days",
		Long: `Add, remove, rename and reorder the days of a trip.

DAY is a 1-based day number or a day id prefix.`,
	}

	cmd.AddCommand(
		newDayAddCmd(app),
		newDayRemoveCmd(app),
		newDayRenameCmd(app),
		newDayMoveCmd(app),
	)

	return cmd
}

func newDayAddCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add TRIP",
		Short: "Append an empty day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cmds := []itinerary.Command{itinerary.AddDayCmd{}}
			if title = strings.TrimSpace(title); title != "" {
				cmds = append(cmds, renameLastDayCmd{Title: title})
			}
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Added day %d", len(t.Itinerary.Days)+1), cmds...)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Day title (default \"Day N\")")

	return cmd
}

func newDayRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TRIP DAY",
		Short: "Delete a day and its activities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			di, err := resolveDay(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			d := t.Itinerary.Days[di]
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Deleted day %d (%s)", di+1, d.Title),
				itinerary.DeleteDayCmd{DayID: d.ID})
			return err
		},
	}
}

func newDayRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename TRIP DAY TITLE...",
		Short: "Change a day's title",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			di, err := resolveDay(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			title := strings.Join(args[2:], " ")
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Day %d is now %q", di+1, title),
				itinerary.RenameDayCmd{DayID: t.Itinerary.Days[di].ID, Title: title})
			return err
		},
	}
}

func newDayMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move TRIP DAY POSITION",
		Short: "Move a day to another position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			from, err := resolveDay(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[2], len(t.Itinerary.Days))
			if err != nil {
				return err
			}
			if to >= len(t.Itinerary.Days) {
				return fmt.Errorf("position %d out of range (trip has %d days)", to+1, len(t.Itinerary.Days))
			}
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Moved day %d to position %d", from+1, to+1),
				itinerary.ReorderDaysCmd{From: from, To: to})
			return err
		},
	}
}
