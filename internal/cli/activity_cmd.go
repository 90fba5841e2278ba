package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/itinerary"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Add, edit, remove and move activities",
		Long: `Add, edit, remove and move activities.

ACTIVITY is "day.position" as shown by "trip show" (e.g. 2.3), or an
activity id prefix.`,
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityRemoveCmd(app),
		newActivityEditCmd(app),
		newActivityMoveCmd(app),
		newActivityPlaceCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var start, end, at string

	cmd := &cobra.Command{
		Use:   "add TRIP DAY TEXT...",
		Short: "Add an activity to a day",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTimeFlag("start", start); err != nil {
				return err
			}
			if err := validateTimeFlag("end", end); err != nil {
				return err
			}
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			di, err := resolveDay(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			day := t.Itinerary.Days[di]
			pos, err := parsePosition(at, len(day.Activities))
			if err != nil {
				return err
			}
			text := strings.Join(args[2:], " ")

			var c itinerary.Command = itinerary.AddActivityCmd{DayID: day.ID, Text: text}
			if start != "" || end != "" || pos != len(day.Activities) {
				// A promoted template carries times and a position in one step.
				c = itinerary.PromoteCmd{
					Item:    domain.PoolItem{Text: text, Start: start, End: end},
					ToDayID: day.ID,
					ToIndex: pos,
				}
			}
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Added %q to day %d", text, di+1), c)
			return err
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&at, "at", "", "1-based position within the day (default: last)")

	return cmd
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TRIP ACTIVITY",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			di, ai, err := resolveActivity(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			d := t.Itinerary.Days[di]
			a := d.Activities[ai]
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Deleted %q", a.Text),
				itinerary.DeleteActivityCmd{DayID: d.ID, ActivityID: a.ID})
			return err
		},
	}
}

func newActivityEditCmd(app *App) *cobra.Command {
	var text, start, end string
	var clearPlace bool

	cmd := &cobra.Command{
		Use:   "edit TRIP ACTIVITY",
		Short: "Change an activity's text, times or place",
		Long: `Change an activity's text, times or place.

Pass an empty value (--start "") to clear a time.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch itinerary.ActivityPatch
			flags := cmd.Flags()
			if flags.Changed("text") {
				if strings.TrimSpace(text) == "" {
					return fmt.Errorf("--text must not be empty")
				}
				patch.Text = &text
			}
			if flags.Changed("start") {
				if err := validateTimeFlag("start", start); err != nil {
					return err
				}
				patch.Start = &start
			}
			if flags.Changed("end") {
				if err := validateTimeFlag("end", end); err != nil {
					return err
				}
				patch.End = &end
			}
			patch.ClearPlace = clearPlace
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change: pass --text, --start, --end or --clear-place")
			}

			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			di, ai, err := resolveActivity(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			d := t.Itinerary.Days[di]
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Updated activity %d.%d", di+1, ai+1),
				itinerary.EditActivityCmd{DayID: d.ID, ActivityID: d.Activities[ai].ID, Patch: patch})
			return err
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New activity text")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().BoolVar(&clearPlace, "clear-place", false, "Remove the attached place")

	return cmd
}

func newActivityMoveCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "move TRIP ACTIVITY DAY",
		Short: "Move an activity to a day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fromDay, fromIdx, err := resolveActivity(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			toDay, err := resolveDay(t.Itinerary, args[2])
			if err != nil {
				return err
			}
			target := t.Itinerary.Days[toDay]
			pos, err := parsePosition(at, len(target.Activities))
			if err != nil {
				return err
			}
			if toDay == fromDay && at == "" {
				pos = len(target.Activities) - 1
			}

			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Moved activity to day %d", toDay+1),
				itinerary.MoveActivityCmd{
					FromDayID: t.Itinerary.Days[fromDay].ID,
					FromIndex: fromIdx,
					ToDayID:   target.ID,
					ToIndex:   pos,
				})
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "1-based position in the target day (default: last)")

	return cmd
}

func newActivityPlaceCmd(app *App) *cobra.Command {
	var pick int

	cmd := &cobra.Command{
		Use:   "place TRIP ACTIVITY QUERY...",
		Short: "Look up a place and attach it to an activity",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Geocoder == nil {
				return fmt.Errorf("place lookup is not configured")
			}
			ctx := cmd.Context()
			t, err := resolveTrip(ctx, app, args[0])
			if err != nil {
				return err
			}
			di, ai, err := resolveActivity(t.Itinerary, args[1])
			if err != nil {
				return err
			}

			query := strings.Join(args[2:], " ")
			places, err := app.Geocoder.Search(ctx, query)
			if err != nil {
				return err
			}
			if len(places) == 0 {
				return fmt.Errorf("no places found for %q", query)
			}
			if pick < 1 || pick > len(places) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlaces(places))
				return fmt.Errorf("--pick must be between 1 and %d", len(places))
			}
			p := places[pick-1]

			d := t.Itinerary.Days[di]
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Attached %s", formatter.PlaceLine(p)),
				itinerary.EditActivityCmd{
					DayID:      d.ID,
					ActivityID: d.Activities[ai].ID,
					Patch:      itinerary.ActivityPatch{Place: &p},
				})
			return err
		},
	}

	cmd.Flags().IntVar(&pick, "pick", 1, "Which search result to attach")

	return cmd
}

func newPlaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Look up places",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "find QUERY...",
		Short: "Search for places by name or address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Geocoder == nil {
				return fmt.Errorf("place lookup is not configured")
			}
			places, err := app.Geocoder.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlaces(places))
			return nil
		},
	})

	return cmd
}
