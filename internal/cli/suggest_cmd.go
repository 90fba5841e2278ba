package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/service"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Find events to add to a day",
	}
	cmd.AddCommand(newEventsSuggestCmd(app))
	return cmd
}

func newEventsSuggestCmd(app *App) *cobra.Command {
	var date, tripRef, dayRef string
	var add int

	cmd := &cobra.Command{
		Use:   "suggest LOCATION...",
		Short: "Suggest events happening at a location",
		Long: `Suggest events happening at a location.

With --trip and --day the date defaults to that day's calendar date, and
--add N copies the Nth suggestion into the day.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Events == nil {
				return service.ErrLLMDisabled
			}
			if err := validateOptionalDate(date); err != nil {
				return err
			}
			if add > 0 && (tripRef == "" || dayRef == "") {
				return fmt.Errorf("--add needs --trip and --day")
			}
			ctx := cmd.Context()
			location := strings.Join(args, " ")

			var t *domain.Trip
			di := -1
			if tripRef != "" {
				var err error
				if t, err = resolveTrip(ctx, app, tripRef); err != nil {
					return err
				}
				if dayRef != "" {
					if di, err = resolveDay(t.Itinerary, dayRef); err != nil {
						return err
					}
					if d := t.DayDate(di); d != nil && date == "" {
						date = d.Format(time.DateOnly)
					}
				}
			}

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Looking for events...", app.interactive())
			events, err := app.Events.Suggest(ctx, intelligence.EventQuery{Location: location, Date: date})
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEvents(location, date, events))

			if add == 0 {
				return nil
			}
			if add > len(events) {
				return fmt.Errorf("--add must be between 1 and %d", len(events))
			}
			day := t.Itinerary.Days[di]
			e := events[add-1]
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Added %q to day %d", e.Name, di+1),
				itinerary.PromoteCmd{Item: e.PoolItem(), ToDayID: day.ID, ToIndex: len(day.Activities)})
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tripRef, "trip", "", "Trip to add suggestions to")
	cmd.Flags().StringVar(&dayRef, "day", "", "Day within --trip")
	cmd.Flags().IntVar(&add, "add", 0, "Add the Nth suggestion to --day")

	return cmd
}

func newAlternativesCmd(app *App) *cobra.Command {
	var add int

	cmd := &cobra.Command{
		Use:     "alternatives TRIP ACTIVITY",
		Aliases: []string{"alt"},
		Short:   "Suggest alternatives for an activity",
		Long: `Suggest alternatives for an activity.

--add N inserts a copy of the Nth suggestion right after the activity; the
original stays in place.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTrip(ctx, app, args[0])
			if err != nil {
				return err
			}
			di, ai, err := resolveActivity(t.Itinerary, args[1])
			if err != nil {
				return err
			}
			day := t.Itinerary.Days[di]
			a := day.Activities[ai]

			alts := app.Alternatives
			if alts == nil {
				alts = intelligence.NewAlternativesService(nil)
			}
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking...", app.interactive())
			items := alts.Suggest(ctx, a, day.Title)
			stop()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPool("Instead of "+a.Text, items))

			if add == 0 {
				return nil
			}
			if add < 0 || add > len(items) {
				return fmt.Errorf("--add must be between 1 and %d", len(items))
			}
			_, err = applyEdit(cmd, app, t, fmt.Sprintf("Added %q to day %d", items[add-1].Text, di+1),
				itinerary.PromoteCmd{Item: items[add-1], ToDayID: day.ID, ToIndex: ai + 1})
			return err
		},
	}

	cmd.Flags().IntVar(&add, "add", 0, "Insert the Nth suggestion after the activity")

	return cmd
}
